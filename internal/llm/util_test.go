package llm

import (
	"testing"
)

func TestCleanJSONBlock_Fences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fenced bullets",
			input:    "```json\n[\"Led migration to Go\", \"Cut p99 latency by 40%\"]\n```",
			expected: `["Led migration to Go", "Cut p99 latency by 40%"]`,
		},
		{
			name:     "bare fence around keywords",
			input:    "```\n{\"keywords\": [\"Go\", \"Kafka\"]}\n```",
			expected: `{"keywords": ["Go", "Kafka"]}`,
		},
		{
			name:     "fence tagged with another language",
			input:    "```javascript\n[\"Kubernetes\"]\n```",
			expected: `["Kubernetes"]`,
		},
		{
			name:     "fence without newline keeps payload",
			input:    "```{\"bullets\": []}```",
			expected: `{"bullets": []}`,
		},
		{
			name:     "unfenced array",
			input:    `["Terraform", "AWS"]`,
			expected: `["Terraform", "AWS"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_SurroundingProse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "intro line before bullets",
			input:    "Here are your bullets:\n[\"Built billing service\", \"Mentored two engineers\"]",
			expected: `["Built billing service", "Mentored two engineers"]`,
		},
		{
			name:     "closing remark after keywords",
			input:    "{\"keywords\": [\"Go\", \"gRPC\"]}\nLet me know if you need more.",
			expected: `{"keywords": ["Go", "gRPC"]}`,
		},
		{
			name:     "braces inside bullet text",
			input:    "Result: [\"Replaced {{template}} strings with typed builders\"] done",
			expected: `["Replaced {{template}} strings with typed builders"]`,
		},
		{
			name:     "invalid bracket before payload is skipped",
			input:    "Skills [core]: [\"Go\", \"SQL\"]",
			expected: `["Go", "SQL"]`,
		},
		{
			name:     "plain summary is returned trimmed",
			input:    "  Backend engineer focused on payments.  \n",
			expected: "Backend engineer focused on payments.",
		},
		{
			name:     "unterminated array is left alone",
			input:    "[\"Led migration",
			expected: "[\"Led migration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keywords object with trailing text",
			input:    `{"keywords": ["Go"]} trailing`,
			expected: `{"keywords": ["Go"]}`,
		},
		{
			name:     "nested bullet objects",
			input:    `{"bullets": [{"text": "Shipped v1"}]}`,
			expected: `{"bullets": [{"text": "Shipped v1"}]}`,
		},
		{
			name:     "escaped quote before closing brace",
			input:    `{"text": "Owned the \"}\" parser"}`,
			expected: `{"text": "Owned the \"}\" parser"}`,
		},
		{
			name:     "not an object",
			input:    `["Go"]`,
			expected: "",
		},
		{
			name:     "unbalanced",
			input:    `{"keywords": ["Go"]`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bullets with trailing note",
			input:    `["Led team", "Cut costs"] (2 bullets)`,
			expected: `["Led team", "Cut costs"]`,
		},
		{
			name:     "bracket inside bullet text",
			input:    `["Reduced errors [see report]"]`,
			expected: `["Reduced errors [see report]"]`,
		},
		{
			name:     "empty array",
			input:    `[]`,
			expected: `[]`,
		},
		{
			name:     "object is not an array",
			input:    `{"keywords": []}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}

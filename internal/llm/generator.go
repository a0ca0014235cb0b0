package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/prompts"
)

// Output limits for generated lists
const (
	MaxBullets        = 6
	MaxProjectBullets = 4
	MaxKeywords       = 25
)

var validate = validator.New()

// SummaryRequest holds the inputs for a professional summary
type SummaryRequest struct {
	Role           string   `json:"role" validate:"required"`
	JobDescription string   `json:"jobDescription" validate:"required"`
	Experience     string   `json:"experience,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

// BulletsRequest holds the inputs for experience bullet points
type BulletsRequest struct {
	JobTitle       string `json:"jobTitle" validate:"required"`
	Company        string `json:"company,omitempty"`
	Description    string `json:"experienceDescription" validate:"required"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// ProjectBulletsRequest holds the inputs for project bullet points
type ProjectBulletsRequest struct {
	Title        string   `json:"projectTitle" validate:"required"`
	Description  string   `json:"projectDescription" validate:"required"`
	Technologies []string `json:"technologies,omitempty"`
}

// InputError reports a request that is missing required fields
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// GenerationError reports a failed or unusable model response
type GenerationError struct {
	Task    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Task, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Task, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Generator produces résumé text through an LLM client.
// Output is advisory: callers decide whether to store it in a record.
type Generator struct {
	client Client
}

// NewGenerator creates a Generator backed by client
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// GenerateSummary writes a 2-4 sentence professional summary for the target role
func (g *Generator) GenerateSummary(ctx context.Context, req SummaryRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeySummary), map[string]string{
		"Role":           req.Role,
		"JobDescription": req.JobDescription,
		"Experience":     orNotProvided(req.Experience),
		"Skills":         orNotProvided(strings.Join(req.Skills, ", ")),
	})

	text, err := g.client.GenerateContent(ctx, prompt, TierAdvanced)
	if err != nil {
		return "", &GenerationError{Task: "summary", Message: "failed to generate summary", Cause: err}
	}

	summary := cleanSummary(text)
	if summary == "" {
		return "", &GenerationError{Task: "summary", Message: "model returned an empty summary"}
	}
	return summary, nil
}

// GenerateBullets rewrites an experience description as 3-6 bullet points
func (g *Generator) GenerateBullets(ctx context.Context, req BulletsRequest) ([]string, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeyBullets), map[string]string{
		"JobTitle":       req.JobTitle,
		"Company":        orNotProvided(req.Company),
		"JobDescription": orNotProvided(req.JobDescription),
		"Description":    req.Description,
	})

	return g.generateList(ctx, "bullets", prompt, TierStandard, MaxBullets, ParseList)
}

// GenerateProjectBullets rewrites a project description as 2-4 bullet points
func (g *Generator) GenerateProjectBullets(ctx context.Context, req ProjectBulletsRequest) ([]string, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeyProjectBullets), map[string]string{
		"Title":        req.Title,
		"Technologies": orNotProvided(strings.Join(req.Technologies, ", ")),
		"Description":  req.Description,
	})

	return g.generateList(ctx, "project bullets", prompt, TierStandard, MaxProjectBullets, ParseList)
}

// ExtractKeywords pulls ATS keywords out of a job description.
// Duplicates are removed case-insensitively, keeping the first spelling.
func (g *Generator) ExtractKeywords(ctx context.Context, jobDescription string) ([]string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &InputError{Message: "job description is required"}
	}

	prompt := prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeyKeywords), map[string]string{
		"JobDescription": jobDescription,
	})

	keywords, err := g.generateList(ctx, "keywords", prompt, TierLite, 0, ParseKeywordList)
	if err != nil {
		return nil, err
	}
	return clip(dedupeFold(keywords), MaxKeywords), nil
}

func (g *Generator) generateList(ctx context.Context, task, prompt string, tier ModelTier, max int, parse func(string) []string) ([]string, error) {
	text, err := g.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return nil, &GenerationError{Task: task, Message: "failed to generate content", Cause: err}
	}

	items := parse(text)
	if len(items) == 0 {
		return nil, &GenerationError{Task: task, Message: "model response contained no usable items"}
	}
	return clip(items, max), nil
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return &InputError{Message: "invalid generation request", Cause: err}
	}
	return nil
}

// cleanSummary strips code fences, quotes and headings and joins the text into one paragraph
func cleanSummary(text string) string {
	lines := nonBlankLines(text)
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") || strings.EqualFold(strings.TrimSuffix(line, ":"), "professional summary") {
			continue
		}
		parts = append(parts, line)
	}

	summary := strings.TrimSpace(strings.Join(parts, " "))
	if len(summary) >= 2 && summary[0] == '"' && summary[len(summary)-1] == '"' {
		summary = strings.TrimSpace(summary[1 : len(summary)-1])
	}
	return summary
}

func dedupeFold(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}

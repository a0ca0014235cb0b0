package rendering

import (
	_ "embed"
	"regexp"
	"strings"
	"text/template"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/preamble.tex
var preambleSource string

// preambleTemplate uses << >> delimiters so LaTeX braces never collide with actions
var preambleTemplate = template.Must(template.New("preamble").Delims("<<", ">>").Parse(preambleSource))

const postamble = "\n\\end{document}\n"

var marginPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(in|cm|mm|pt)$`)

// Options controls page geometry. Unsupported values fall back to the defaults.
type Options struct {
	Paper    string // letterpaper or a4paper
	FontSize string // 10pt, 11pt or 12pt
	Margin   string // e.g. 0.6in
}

// DefaultOptions returns the US letter, 10pt layout
func DefaultOptions() Options {
	return Options{
		Paper:    "letterpaper",
		FontSize: "10pt",
		Margin:   "0.6in",
	}
}

// normalized replaces unsupported option values with defaults
func (o Options) normalized() Options {
	defaults := DefaultOptions()
	switch o.Paper {
	case "letterpaper", "a4paper":
	default:
		o.Paper = defaults.Paper
	}
	switch o.FontSize {
	case "10pt", "11pt", "12pt":
	default:
		o.FontSize = defaults.FontSize
	}
	if !marginPattern.MatchString(o.Margin) {
		o.Margin = defaults.Margin
	}
	return o
}

// RenderLaTeX renders a complete LaTeX document for the record using the default layout
func RenderLaTeX(record *types.ResumeRecord) (string, error) {
	return Render(record, DefaultOptions())
}

// Render renders a complete LaTeX document for the record.
// Sections appear in a fixed order and empty sections are omitted entirely.
// The record is never modified and the output is byte-identical for identical input.
func Render(record *types.ResumeRecord, opts Options) (string, error) {
	if record == nil {
		return "", &PreconditionError{Field: "record", Message: "record is nil"}
	}
	if isBlank(record.PersonalInfo.FullName) {
		return "", &PreconditionError{Field: "personalInfo.fullName", Message: "full name is required"}
	}

	var result strings.Builder
	if err := preambleTemplate.Execute(&result, opts.normalized()); err != nil {
		return "", &TemplateError{
			Message: "failed to execute preamble template",
			Cause:   err,
		}
	}

	result.WriteString(renderHeader(record.PersonalInfo))

	sections := []string{
		renderSummary(record.TargetRole),
		renderSkills(record.Skills),
		renderExperience(record.Experience),
		renderProjects(record.Projects),
		renderEducation(record.Education, record.SecondaryEducation),
		renderCertifications(record.Certifications),
	}
	for _, section := range sections {
		result.WriteString(section)
	}

	result.WriteString(postamble)
	return result.String(), nil
}

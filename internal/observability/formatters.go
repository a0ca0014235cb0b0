// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecord outputs a human-readable summary of a résumé record.
func (p *Printer) PrintRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	info := record.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.FullName))
	if info.ProfessionalTitle != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", info.ProfessionalTitle))
	}
	if info.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	}

	target := record.TargetRole
	if target.Role != "" {
		role := target.Role
		if target.Company != "" {
			role += " at " + target.Company
		}
		sb.WriteString(fmt.Sprintf("Target:   %s\n", role))
	}
	if target.GeneratedSummary != "" {
		sb.WriteString("Summary:  yes\n")
	}
	sb.WriteString("\n")

	skills := len(record.Skills.Technical) + len(record.Skills.Soft) + len(record.Skills.Tools)
	sb.WriteString(fmt.Sprintf("Experience:     %d\n", len(record.Experience)))
	sb.WriteString(fmt.Sprintf("Projects:       %d\n", len(record.Projects)))
	sb.WriteString(fmt.Sprintf("Education:      %d\n", len(record.Education)))
	sb.WriteString(fmt.Sprintf("Certifications: %d\n", len(record.Certifications)))
	sb.WriteString(fmt.Sprintf("Skills:         %d", skills))

	p.printBox("RESUME RECORD", sb.String())
}

// PrintList outputs generated items under a title, e.g. bullets or keywords.
func (p *Printer) PrintList(title string, items []string) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s", items[i]))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(items)-maxItemsToShow))
	}

	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintProgress outputs enhancement events grouped by outcome.
func (p *Printer) PrintProgress(events []pipeline.ProgressEvent) {
	if len(events) == 0 {
		return
	}

	var filled, failed int
	var sb strings.Builder
	for _, e := range events {
		marker := "•"
		switch e.Category {
		case pipeline.CategoryFilled:
			filled++
			marker = "✓"
		case pipeline.CategoryFailed:
			failed++
			marker = "⚠"
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s\n", marker, e.Step, e.Message))
	}
	sb.WriteString(fmt.Sprintf("\n%d filled, %d failed", filled, failed))

	p.printBox("ENHANCEMENT", sb.String())
}

// PrintArtifact outputs details of a compiled PDF.
func (p *Printer) PrintArtifact(artifact *compile.Artifact, path string) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:  %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:    %d bytes\n", len(artifact.PDF)))
	if artifact.Pages > 0 {
		sb.WriteString(fmt.Sprintf("Pages:   %d", artifact.Pages))
		if artifact.Pages > 1 {
			sb.WriteString("  (more than one page)")
		}
	} else {
		sb.WriteString("Pages:   unknown")
	}
	if text, err := artifact.PlainText(); err == nil && strings.TrimSpace(text) != "" {
		sb.WriteString(fmt.Sprintf("\nText:    %d characters extractable", len([]rune(strings.TrimSpace(text)))))
	} else {
		sb.WriteString("\nText:    no extractable text layer")
	}

	p.printBox("COMPILED PDF", sb.String())
}

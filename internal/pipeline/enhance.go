// Package pipeline orchestrates record enhancement, rendering and compilation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/types"
)

// Progress categories
const (
	CategoryFilled  = "filled"
	CategorySkipped = "skipped"
	CategoryFailed  = "failed"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
// Calls are serialized.
type ProgressCallback func(event ProgressEvent)

// Generator is the text generation the pipeline depends on
type Generator interface {
	GenerateSummary(ctx context.Context, req llm.SummaryRequest) (string, error)
	GenerateBullets(ctx context.Context, req llm.BulletsRequest) ([]string, error)
	GenerateProjectBullets(ctx context.Context, req llm.ProjectBulletsRequest) ([]string, error)
	ExtractKeywords(ctx context.Context, jobDescription string) ([]string, error)
}

// EnhanceOptions selects what Enhance fills in
type EnhanceOptions struct {
	Summary        bool
	Keywords       bool
	Bullets        bool
	ProjectBullets bool
	Concurrency    int // maximum parallel generation calls; <= 0 means 4
	OnProgress     ProgressCallback
}

// DefaultEnhanceOptions fills every missing section with four parallel calls
func DefaultEnhanceOptions() EnhanceOptions {
	return EnhanceOptions{
		Summary:        true,
		Keywords:       true,
		Bullets:        true,
		ProjectBullets: true,
		Concurrency:    4,
	}
}

// Enhance returns a copy of record with missing content generated:
// the professional summary and keywords (when a role and job description are set),
// bullets for experience entries that have a description but no bullets, and
// bullets for projects in the same state. Existing content is never replaced.
//
// A failed generation is logged and leaves that entry unchanged. Enhance only
// returns an error for a nil record or when ctx is cancelled.
func Enhance(ctx context.Context, gen Generator, record *types.ResumeRecord, opts EnhanceOptions) (*types.ResumeRecord, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	out := record.Clone()
	var progressMu sync.Mutex
	emit := func(step, category, message string) {
		if opts.OnProgress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		opts.OnProgress(ProgressEvent{Step: step, Category: category, Message: message})
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	target := record.TargetRole
	hasTarget := !isBlank(target.Role) && !isBlank(target.JobDescription)

	if opts.Summary && isBlank(target.GeneratedSummary) && hasTarget {
		g.Go(func() error {
			summary, err := gen.GenerateSummary(gCtx, llm.SummaryRequest{
				Role:           target.Role,
				JobDescription: target.JobDescription,
				Experience:     experienceDigest(record.Experience),
				Skills:         append(append([]string{}, record.Skills.Technical...), record.Skills.Tools...),
			})
			if err != nil {
				failed(emit, "summary", err)
				return nil
			}
			out.TargetRole.GeneratedSummary = summary
			emit("summary", CategoryFilled, "generated professional summary")
			return nil
		})
	}

	if opts.Keywords && len(target.Keywords) == 0 && !isBlank(target.JobDescription) {
		g.Go(func() error {
			keywords, err := gen.ExtractKeywords(gCtx, target.JobDescription)
			if err != nil {
				failed(emit, "keywords", err)
				return nil
			}
			out.TargetRole.Keywords = keywords
			emit("keywords", CategoryFilled, fmt.Sprintf("extracted %d keywords", len(keywords)))
			return nil
		})
	}

	if opts.Bullets {
		for i, exp := range record.Experience {
			step := fmt.Sprintf("experience[%d]", i)
			if !needsBullets(exp.Description, exp.BulletPoints) || isBlank(exp.JobTitle) {
				continue
			}
			g.Go(func() error {
				bullets, err := gen.GenerateBullets(gCtx, llm.BulletsRequest{
					JobTitle:       exp.JobTitle,
					Company:        exp.Company,
					Description:    exp.Description,
					JobDescription: target.JobDescription,
				})
				if err != nil {
					failed(emit, step, err)
					return nil
				}
				out.Experience[i].BulletPoints = bullets
				emit(step, CategoryFilled, fmt.Sprintf("generated %d bullets for %s", len(bullets), exp.JobTitle))
				return nil
			})
		}
	}

	if opts.ProjectBullets {
		for i, project := range record.Projects {
			step := fmt.Sprintf("projects[%d]", i)
			if !needsBullets(project.Description, project.BulletPoints) || isBlank(project.Title) {
				continue
			}
			g.Go(func() error {
				bullets, err := gen.GenerateProjectBullets(gCtx, llm.ProjectBulletsRequest{
					Title:        project.Title,
					Description:  project.Description,
					Technologies: types.NormalizeStrings(project.Technologies),
				})
				if err != nil {
					failed(emit, step, err)
					return nil
				}
				out.Projects[i].BulletPoints = bullets
				emit(step, CategoryFilled, fmt.Sprintf("generated %d bullets for %s", len(bullets), project.Title))
				return nil
			})
		}
	}

	// tasks report failures through emit and never return an error
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func failed(emit func(step, category, message string), step string, err error) {
	logger.Warn().Err(err).Str("step", step).Msg("generation failed, leaving entry unchanged")
	emit(step, CategoryFailed, err.Error())
}

// needsBullets reports a description with no usable bullets
func needsBullets(description string, bullets []string) bool {
	if isBlank(description) {
		return false
	}
	for _, b := range bullets {
		if !isBlank(b) {
			return false
		}
	}
	return true
}

// experienceDigest summarizes positions for the summary prompt
func experienceDigest(experience []types.Experience) string {
	lines := make([]string, 0, len(experience))
	for _, exp := range experience {
		if isBlank(exp.JobTitle) {
			continue
		}
		line := exp.JobTitle
		if !isBlank(exp.Company) {
			line += " at " + exp.Company
		}
		if !isBlank(exp.Description) {
			line += ": " + strings.TrimSpace(exp.Description)
		} else if len(exp.BulletPoints) > 0 {
			line += ": " + strings.Join(exp.BulletPoints, "; ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

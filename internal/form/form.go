// Package form holds the multi-step editing state that produces a résumé record.
// States are values: every transition returns a new State and leaves the old one intact.
package form

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Step is one page of the résumé form
type Step string

// Form steps in order
const (
	StepPhoto          Step = "photo"
	StepBasic          Step = "basic"
	StepTarget         Step = "target"
	StepExperience     Step = "experience"
	StepSkills         Step = "skills"
	StepProjects       Step = "projects"
	StepEducation      Step = "education"
	StepCertifications Step = "certifications"
	StepPreview        Step = "preview"
)

// Steps lists every step in form order
var Steps = []Step{
	StepPhoto,
	StepBasic,
	StepTarget,
	StepExperience,
	StepSkills,
	StepProjects,
	StepEducation,
	StepCertifications,
	StepPreview,
}

// Index returns the position of s in Steps, or -1 if unknown
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// ParseStep validates a step name
func ParseStep(name string) (Step, error) {
	step := Step(strings.ToLower(strings.TrimSpace(name)))
	if step.Index() < 0 {
		return "", fmt.Errorf("unknown form step %q", name)
	}
	return step, nil
}

// State is the form position plus the record being edited
type State struct {
	Step   Step               `json:"step"`
	Record types.ResumeRecord `json:"record"`
}

// NewState returns an empty form positioned at the first step
func NewState() State {
	return State{Step: StepPhoto}
}

// Patch carries optional replacements for record sections.
// A nil field leaves the section unchanged; a non-nil empty slice clears it.
type Patch struct {
	PersonalInfo       *types.PersonalInfo       `json:"personalInfo,omitempty"`
	TargetRole         *types.TargetRole         `json:"targetRole,omitempty"`
	Experience         *[]types.Experience       `json:"experience,omitempty"`
	Skills             *types.Skills             `json:"skills,omitempty"`
	Education          *[]types.Education        `json:"education,omitempty"`
	SecondaryEducation *types.SecondaryEducation `json:"schoolEducation,omitempty"`
	Certifications     *[]types.Certification    `json:"certifications,omitempty"`
	Projects           *[]types.Project          `json:"projects,omitempty"`
	Settings           *types.Settings           `json:"settings,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.PersonalInfo == nil && p.TargetRole == nil && p.Experience == nil &&
		p.Skills == nil && p.Education == nil && p.SecondaryEducation == nil &&
		p.Certifications == nil && p.Projects == nil && p.Settings == nil
}

// Apply returns a new state with the patch merged into a deep copy of the record.
// Neither s nor the patch is modified, and the result shares no memory with either.
// New list entries without an ID receive one.
func (s State) Apply(p Patch) State {
	next := s.Record.Clone()

	if p.PersonalInfo != nil {
		next.PersonalInfo = *p.PersonalInfo
	}
	if p.TargetRole != nil {
		next.TargetRole = *p.TargetRole
	}
	if p.Experience != nil {
		next.Experience = *p.Experience
	}
	if p.Skills != nil {
		next.Skills = types.Skills{
			Technical: mergeList(p.Skills.Technical),
			Soft:      mergeList(p.Skills.Soft),
			Tools:     mergeList(p.Skills.Tools),
		}
	}
	if p.Education != nil {
		next.Education = *p.Education
	}
	if p.SecondaryEducation != nil {
		next.SecondaryEducation = p.SecondaryEducation
	}
	if p.Certifications != nil {
		next.Certifications = *p.Certifications
	}
	if p.Projects != nil {
		next.Projects = *p.Projects
	}
	if p.Settings != nil {
		next.Settings = *p.Settings
	}

	// second clone detaches the sections taken from the patch
	next = next.Clone()
	next.AssignIDs()
	return State{Step: s.Step, Record: *next}
}

// Next moves to the following step, staying on the last one
func (s State) Next() State {
	i := s.Step.Index()
	if i < 0 {
		return State{Step: Steps[0], Record: s.Record}
	}
	if i < len(Steps)-1 {
		i++
	}
	return State{Step: Steps[i], Record: s.Record}
}

// Prev moves to the previous step, staying on the first one
func (s State) Prev() State {
	i := s.Step.Index()
	if i <= 0 {
		return State{Step: Steps[0], Record: s.Record}
	}
	return State{Step: Steps[i-1], Record: s.Record}
}

// Goto jumps to step, which must be known
func (s State) Goto(step Step) (State, error) {
	if step.Index() < 0 {
		return s, fmt.Errorf("unknown form step %q", step)
	}
	return State{Step: step, Record: s.Record}, nil
}

// CanAdvance reports whether the current step has what it needs.
// Only basic details are mandatory: a name and an email address.
func (s State) CanAdvance() bool {
	switch s.Step {
	case StepBasic:
		info := s.Record.PersonalInfo
		return strings.TrimSpace(info.FullName) != "" && strings.TrimSpace(info.Email) != ""
	case StepPreview:
		return false
	default:
		return s.Step.Index() >= 0
	}
}

// Progress returns the completed fraction of the form in [0, 1]
func (s State) Progress() float64 {
	i := s.Step.Index()
	if i < 0 {
		return 0
	}
	return float64(i) / float64(len(Steps)-1)
}

// mergeList deduplicates a patched skill list, keeping nil as nil
func mergeList(skills []string) []string {
	if skills == nil {
		return nil
	}
	return MergeSkills(nil, skills...)
}

// MergeSkills appends additions to existing, dropping blanks and
// case-insensitive duplicates. The first spelling seen wins.
func MergeSkills(existing []string, additions ...string) []string {
	seen := make(map[string]bool, len(existing)+len(additions))
	out := make([]string, 0, len(existing)+len(additions))
	for _, list := range [][]string{existing, additions} {
		for _, skill := range list {
			skill = strings.TrimSpace(skill)
			key := strings.ToLower(skill)
			if skill == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, skill)
		}
	}
	return out
}

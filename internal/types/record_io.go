package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var recordValidator = validator.New()

// Validate checks the record invariants the renderer relies on
func (r *ResumeRecord) Validate() error {
	return recordValidator.Struct(r)
}

// AssignIDs gives every list entry without an ID a fresh UUID
func (r *ResumeRecord) AssignIDs() {
	for i := range r.Experience {
		if r.Experience[i].ID == "" {
			r.Experience[i].ID = uuid.New().String()
		}
	}
	for i := range r.Education {
		if r.Education[i].ID == "" {
			r.Education[i].ID = uuid.New().String()
		}
	}
	for i := range r.Certifications {
		if r.Certifications[i].ID == "" {
			r.Certifications[i].ID = uuid.New().String()
		}
	}
	for i := range r.Projects {
		if r.Projects[i].ID == "" {
			r.Projects[i].ID = uuid.New().String()
		}
	}
}

// Clone returns a deep copy of the record.
// Slices are copied so the caller can modify the copy without touching the original.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.TargetRole.Keywords = cloneStrings(r.TargetRole.Keywords)
	out.Skills = Skills{
		Technical: cloneStrings(r.Skills.Technical),
		Soft:      cloneStrings(r.Skills.Soft),
		Tools:     cloneStrings(r.Skills.Tools),
	}

	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, exp := range r.Experience {
			exp.BulletPoints = cloneStrings(exp.BulletPoints)
			out.Experience[i] = exp
		}
	}
	if r.Projects != nil {
		out.Projects = make([]Project, len(r.Projects))
		for i, p := range r.Projects {
			p.BulletPoints = cloneStrings(p.BulletPoints)
			p.Technologies = StringList(cloneStrings(p.Technologies))
			out.Projects[i] = p
		}
	}
	if r.Education != nil {
		out.Education = append([]Education(nil), r.Education...)
	}
	if r.Certifications != nil {
		out.Certifications = append([]Certification(nil), r.Certifications...)
	}
	if r.SecondaryEducation != nil {
		se := *r.SecondaryEducation
		out.SecondaryEducation = &se
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// ParseRecord decodes a record from JSON or YAML content.
// The format is chosen by the file extension hint; anything other than .yaml/.yml is JSON.
func ParseRecord(data []byte, ext string) (*ResumeRecord, error) {
	var record ResumeRecord
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to parse record YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to parse record JSON: %w", err)
		}
	}
	return &record, nil
}

// LoadRecord reads a record file (JSON or YAML) and assigns missing entry IDs
func LoadRecord(path string) (*ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	record, err := ParseRecord(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	record.AssignIDs()
	return record, nil
}

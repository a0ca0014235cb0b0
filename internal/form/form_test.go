package form

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepNavigation(t *testing.T) {
	state := NewState()
	assert.Equal(t, StepPhoto, state.Step)
	assert.Equal(t, StepPhoto, state.Prev().Step)

	for i := 1; i < len(Steps); i++ {
		state = state.Next()
		assert.Equal(t, Steps[i], state.Step)
	}
	assert.Equal(t, StepPreview, state.Next().Step)
	assert.Equal(t, StepCertifications, state.Prev().Step)
	assert.Equal(t, 1.0, state.Progress())
}

func TestStepNavigation_UnknownStepResets(t *testing.T) {
	state := State{Step: "bogus"}
	assert.Equal(t, StepPhoto, state.Next().Step)
	assert.Equal(t, StepPhoto, state.Prev().Step)
	assert.False(t, state.CanAdvance())
	assert.Equal(t, 0.0, state.Progress())
}

func TestParseStepAndGoto(t *testing.T) {
	step, err := ParseStep(" Skills ")
	require.NoError(t, err)
	assert.Equal(t, StepSkills, step)

	_, err = ParseStep("payment")
	assert.Error(t, err)

	state, err := NewState().Goto(StepProjects)
	require.NoError(t, err)
	assert.Equal(t, StepProjects, state.Step)

	_, err = NewState().Goto("payment")
	assert.Error(t, err)
}

func TestCanAdvance_BasicRequiresNameAndEmail(t *testing.T) {
	state := State{Step: StepBasic}
	assert.False(t, state.CanAdvance())

	state = state.Apply(Patch{PersonalInfo: &types.PersonalInfo{FullName: "Jane"}})
	assert.False(t, state.CanAdvance())

	state = state.Apply(Patch{PersonalInfo: &types.PersonalInfo{FullName: "Jane", Email: "jane@example.com"}})
	assert.True(t, state.CanAdvance())

	assert.True(t, State{Step: StepSkills}.CanAdvance())
	assert.False(t, State{Step: StepPreview}.CanAdvance())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	original := NewState().Apply(Patch{
		PersonalInfo: &types.PersonalInfo{FullName: "Jane"},
		Experience:   &[]types.Experience{{ID: "e1", JobTitle: "Engineer", BulletPoints: []string{"a"}}},
	})
	snapshot, err := json.Marshal(original)
	require.NoError(t, err)

	next := original.Apply(Patch{Skills: &types.Skills{Technical: []string{"Go"}}})
	next.Record.Experience[0].BulletPoints[0] = "changed"
	next.Record.Experience[0].JobTitle = "changed"

	after, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot), string(after))
	assert.Equal(t, []string{"Go"}, next.Record.Skills.Technical)
	assert.Equal(t, "Jane", next.Record.PersonalInfo.FullName)
}

func TestApply_DetachesFromPatch(t *testing.T) {
	bullets := []string{"a"}
	projects := []types.Project{{ID: "p1", Title: "App", BulletPoints: bullets}}
	state := NewState().Apply(Patch{Projects: &projects})

	projects[0].Title = "changed"
	bullets[0] = "changed"

	assert.Equal(t, "App", state.Record.Projects[0].Title)
	assert.Equal(t, "a", state.Record.Projects[0].BulletPoints[0])
}

func TestApply_NilLeavesSectionEmptySliceClears(t *testing.T) {
	state := NewState().Apply(Patch{
		Certifications: &[]types.Certification{{ID: "c1", Name: "CKA"}},
	})

	unchanged := state.Apply(Patch{})
	assert.Len(t, unchanged.Record.Certifications, 1)

	cleared := state.Apply(Patch{Certifications: &[]types.Certification{}})
	assert.Empty(t, cleared.Record.Certifications)
}

func TestApply_AssignsIDs(t *testing.T) {
	state := NewState().Apply(Patch{
		Experience: &[]types.Experience{{JobTitle: "Engineer"}, {ID: "keep", JobTitle: "Intern"}},
	})
	assert.NotEmpty(t, state.Record.Experience[0].ID)
	assert.Equal(t, "keep", state.Record.Experience[1].ID)
}

func TestApply_KeepsStep(t *testing.T) {
	state := State{Step: StepTarget}.Apply(Patch{TargetRole: &types.TargetRole{Role: "SRE"}})
	assert.Equal(t, StepTarget, state.Step)
	assert.Equal(t, "SRE", state.Record.TargetRole.Role)
}

func TestPatch_JSON(t *testing.T) {
	var patch Patch
	require.NoError(t, json.Unmarshal([]byte(`{"skills": {"technical": ["Go"]}, "projects": []}`), &patch))
	assert.False(t, patch.IsEmpty())
	require.NotNil(t, patch.Projects)
	assert.Empty(t, *patch.Projects)
	assert.Nil(t, patch.Experience)

	assert.True(t, Patch{}.IsEmpty())
}

func TestMergeSkills(t *testing.T) {
	merged := MergeSkills([]string{"Go", "Docker", " "}, "go", "Kubernetes", "docker ", "", "Kafka")
	assert.Equal(t, []string{"Go", "Docker", "Kubernetes", "Kafka"}, merged)

	assert.Equal(t, []string{}, MergeSkills(nil))
}

func TestApply_DeduplicatesPatchedSkills(t *testing.T) {
	state := NewState().Apply(Patch{Skills: &types.Skills{
		Technical: []string{"Go", " go ", "Kafka", ""},
		Tools:     []string{"Docker", "docker"},
	}})

	assert.Equal(t, []string{"Go", "Kafka"}, state.Record.Skills.Technical)
	assert.Equal(t, []string{"Docker"}, state.Record.Skills.Tools)
	assert.Nil(t, state.Record.Skills.Soft)

	cleared := state.Apply(Patch{Skills: &types.Skills{Technical: []string{}}})
	assert.Empty(t, cleared.Record.Skills.Technical)
	assert.True(t, cleared.Record.Skills.IsEmpty())
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{Skills: &types.Skills{}}.IsEmpty())
	assert.False(t, Patch{Projects: &[]types.Project{}}.IsEmpty())
}

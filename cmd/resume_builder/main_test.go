package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
)

// resetFlags restores every flag to its default so commands can run repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// execute runs the CLI in-process and returns stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{
		config.EnvGeminiAPIKey, config.EnvOpenAIAPIKey, config.EnvAnthropicAPIKey,
		config.EnvLLMProvider, config.EnvLLMBaseURL,
	} {
		t.Setenv(key, "")
	}

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

type fakeGenerator struct {
	err error
}

func (f *fakeGenerator) GenerateSummary(_ context.Context, req llm.SummaryRequest) (string, error) {
	return "Engineer targeting " + req.Role + ".", f.err
}

func (f *fakeGenerator) GenerateBullets(_ context.Context, req llm.BulletsRequest) ([]string, error) {
	return []string{"Shipped " + req.JobTitle + " work"}, f.err
}

func (f *fakeGenerator) GenerateProjectBullets(_ context.Context, req llm.ProjectBulletsRequest) ([]string, error) {
	return []string{"Built " + req.Title}, f.err
}

func (f *fakeGenerator) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	return []string{"Go", "Kafka"}, f.err
}

func useFakeGenerator(t *testing.T, gen *fakeGenerator) {
	t.Helper()
	original := generatorFactory
	generatorFactory = func(context.Context, config.Config) (pipeline.Generator, func(), error) {
		return gen, func() {}, nil
	}
	t.Cleanup(func() { generatorFactory = original })
}

func TestRender_Stdout(t *testing.T) {
	out, err := execute(t, "", "render", "testdata/record.json")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `\documentclass[10pt,letterpaper]{article}`))
	assert.Contains(t, out, `Built billing \& payments services.`)
	assert.Contains(t, out, `Go, C\#`)
	assert.True(t, strings.HasSuffix(out, "\\end{document}\n"))
}

func TestRender_ToFileWithLayoutConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("paper: a4paper\nfont_size: 11pt\n"), 0644))
	outPath := filepath.Join(dir, "nested", "resume.tex")

	out, err := execute(t, "", "render", "testdata/record.yaml", "--config", cfgPath, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully rendered LaTeX resume")

	latex, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(latex), `\documentclass[11pt,a4paper]{article}`))
	assert.Contains(t, string(latex), "Go, Rust")
}

func TestRender_Stdin(t *testing.T) {
	out, err := execute(t, `{"personalInfo": {"fullName": "Stdin Person"}}`, "render", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Stdin Person")
}

func TestRender_MissingName(t *testing.T) {
	_, err := execute(t, `{"personalInfo": {"fullName": ""}}`, "render", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FullName")
}

func TestRender_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"compile_mode": "cloud"}`), 0644))

	_, err := execute(t, "", "render", "testdata/record.json", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile_mode")
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "", "validate", "testdata/record.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Record is valid")

	out, err = execute(t, "", "validate", "testdata/record.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Record is valid")
}

func TestValidate_Invalid(t *testing.T) {
	_, err := execute(t, "", "validate", "testdata/invalid_record.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "personalInfo.fullName")
	assert.Contains(t, err.Error(), "experience.0.level")
}

func TestValidate_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"type": "object",
		"required": ["certifications"]
	}`), 0644))

	_, err := execute(t, "", "validate", "testdata/record.json", "--schema", schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "certifications")
}

func TestCompile(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%fake\n")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	defer ts.Close()

	dir := t.TempDir()
	outPath := filepath.Join(dir, "resume.pdf")

	t.Setenv(config.EnvCompileURL, ts.URL)
	out, err := execute(t, "", "compile", "testdata/record.json", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully compiled resume")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, pdf, written)
	assert.NoFileExists(t, filepath.Join(dir, "resume.tex"))
}

func TestCompile_FailureKeepsTex(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "! Undefined control sequence.", http.StatusInternalServerError)
	}))
	defer ts.Close()

	dir := t.TempDir()
	outPath := filepath.Join(dir, "resume.pdf")

	t.Setenv(config.EnvCompileURL, ts.URL)
	_, err := execute(t, "", "compile", "testdata/record.json", "--out", outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume.tex")

	tex, readErr := os.ReadFile(filepath.Join(dir, "resume.tex"))
	require.NoError(t, readErr)
	assert.True(t, strings.HasPrefix(string(tex), `\documentclass`))
	assert.NoFileExists(t, outPath)
}

func TestSuggest_Keywords(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})

	out, err := execute(t, "", "suggest", "keywords", "--job-description", "Go and Kafka")
	require.NoError(t, err)
	assert.Equal(t, "- Go\n- Kafka\n", out)
}

func TestSuggest_SummaryJSON(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})

	out, err := execute(t, "", "suggest", "summary", "--role", "SRE", "--job-description", "Run things", "--json")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Engineer targeting SRE.", resp["summary"])
}

func TestSuggest_JobDescriptionFile(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})
	jdPath := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(jdPath, []byte("Go"), 0644))

	_, err := execute(t, "", "suggest", "keywords", "--job-description-file", jdPath)
	require.NoError(t, err)

	_, err = execute(t, "", "suggest", "keywords", "--job-description-file", jdPath, "--job-description", "Go")
	assert.Error(t, err)
}

func TestSuggest_MissingAPIKey(t *testing.T) {
	_, err := execute(t, "", "suggest", "summary", "--role", "SRE", "--job-description", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvGeminiAPIKey)
}

func TestSuggest_GenerationFailure(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{err: errors.New("quota exceeded")})

	_, err := execute(t, "", "suggest", "bullets", "--title", "SRE", "--description", "Ran things")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEnhance(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})

	out, err := execute(t, "", "enhance", "testdata/record.json")
	require.NoError(t, err)

	var record types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, "Engineer targeting Staff Engineer.", record.TargetRole.GeneratedSummary)
	assert.Equal(t, []string{"Go", "Kafka"}, record.TargetRole.Keywords)
	assert.Equal(t, []string{"Shipped Senior Engineer work"}, record.Experience[0].BulletPoints)
	assert.Equal(t, []string{"Built resume_builder"}, record.Projects[0].BulletPoints)
}

func TestEnhance_Only(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})

	out, err := execute(t, "", "enhance", "testdata/record.json", "--only", "keywords")
	require.NoError(t, err)

	var record types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Empty(t, record.TargetRole.GeneratedSummary)
	assert.Equal(t, []string{"Go", "Kafka"}, record.TargetRole.Keywords)
	assert.Empty(t, record.Experience[0].BulletPoints)

	_, err = execute(t, "", "enhance", "testdata/record.json", "--only", "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "everything")
}

func TestEnhance_YAMLOutput(t *testing.T) {
	useFakeGenerator(t, &fakeGenerator{})
	outPath := filepath.Join(t.TempDir(), "enhanced.yaml")

	_, err := execute(t, "", "enhance", "testdata/record.json", "--out", outPath)
	require.NoError(t, err)

	record, err := types.LoadRecord(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Engineer targeting Staff Engineer.", record.TargetRole.GeneratedSummary)
}

func TestAllowedOrigins(t *testing.T) {
	assert.Nil(t, allowedOrigins([]string{"*"}))
	assert.Equal(t, []string{"https://a.example"}, allowedOrigins([]string{"https://a.example"}))
}

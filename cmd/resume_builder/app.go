package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// generatorFactory builds the text generator; tests replace it
var generatorFactory = newLLMGenerator

// newLLMGenerator creates a generator for the configured provider.
// The returned function releases the client.
func newLLMGenerator(ctx context.Context, cfg config.Config) (pipeline.Generator, func(), error) {
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}

	llmConfig := llm.ConfigForProvider(provider)
	for tier, model := range cfg.Models {
		llmConfig = llmConfig.WithModel(llm.ModelTier(tier), model)
	}
	if cfg.BaseURL != "" {
		llmConfig = llmConfig.WithBaseURL(cfg.BaseURL)
	}
	if cfg.CustomerID != "" {
		llmConfig = llmConfig.WithHeader("customerId", cfg.CustomerID)
	}
	if cfg.MaxTokens > 0 {
		llmConfig.MaxTokens = cfg.MaxTokens
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, nil, errors.Errorf("no API key for provider %s: set %s", provider, apiKeyVariable(provider))
		}
		return nil, nil, errors.Wrap(err, "creating LLM client")
	}

	return llm.NewGenerator(client), func() { _ = client.Close() }, nil
}

func apiKeyVariable(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return config.EnvOpenAIAPIKey
	case llm.ProviderAnthropic:
		return config.EnvAnthropicAPIKey
	default:
		return config.EnvGeminiAPIKey
	}
}

// newCompiler creates the compiler selected by the configuration
func newCompiler(cfg config.Config) (compile.Compiler, error) {
	return compile.New(compile.Options{
		Mode:         cfg.CompileMode,
		URL:          cfg.CompileURL,
		PdflatexPath: cfg.PdflatexPath,
		Timeout:      cfg.CompileTimeoutDuration(),
	})
}

// layoutOptions returns the page layout from the configuration
func layoutOptions(cfg config.Config) rendering.Options {
	return rendering.Options{
		Paper:    cfg.Paper,
		FontSize: cfg.FontSize,
		Margin:   cfg.Margin,
	}
}

// readRecord loads a record from path, or JSON from stdin when path is "-"
func readRecord(path string, stdin io.Reader) (*types.ResumeRecord, error) {
	if path != "-" {
		return types.LoadRecord(path)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "reading record from stdin")
	}
	record, err := types.ParseRecord(data, ".json")
	if err != nil {
		return nil, err
	}
	record.AssignIDs()
	return record, nil
}

// writeOutput writes data to path, creating parent directories, or to w when path is empty
func writeOutput(path string, data []byte, w io.Writer) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// readFile reads a text file
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

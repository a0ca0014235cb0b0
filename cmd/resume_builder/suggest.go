package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/observability"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Draft résumé text with an LLM",
	Long:  "Generates a professional summary, bullet points or ATS keywords. Output is a suggestion; nothing is written to a record.",
}

var (
	suggestJSON bool

	suggestRole           string
	suggestJobDescription string
	suggestJDFile         string
	suggestExperience     string
	suggestSkills         string

	suggestTitle        string
	suggestCompany      string
	suggestDescription  string
	suggestTechnologies string
)

var suggestSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Draft a 2-4 sentence professional summary for a target role",
	Args:  cobra.NoArgs,
	RunE:  runSuggestSummary,
}

var suggestBulletsCmd = &cobra.Command{
	Use:   "bullets",
	Short: "Draft achievement bullets for a position",
	Args:  cobra.NoArgs,
	RunE:  runSuggestBullets,
}

var suggestProjectBulletsCmd = &cobra.Command{
	Use:   "project-bullets",
	Short: "Draft bullets for a project",
	Args:  cobra.NoArgs,
	RunE:  runSuggestProjectBullets,
}

var suggestKeywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract ATS keywords from a job description",
	Args:  cobra.NoArgs,
	RunE:  runSuggestKeywords,
}

func init() {
	suggestCmd.PersistentFlags().BoolVar(&suggestJSON, "json", false, "Print the result as JSON")

	jdFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&suggestJobDescription, "job-description", "", "Job description text")
		cmd.Flags().StringVar(&suggestJDFile, "job-description-file", "", "Read the job description from a file")
	}

	suggestSummaryCmd.Flags().StringVar(&suggestRole, "role", "", "Target role (required)")
	suggestSummaryCmd.Flags().StringVar(&suggestExperience, "experience", "", "Short description of your experience")
	suggestSummaryCmd.Flags().StringVar(&suggestSkills, "skills", "", "Comma-separated skills")
	jdFlags(suggestSummaryCmd)

	suggestBulletsCmd.Flags().StringVar(&suggestTitle, "title", "", "Job title (required)")
	suggestBulletsCmd.Flags().StringVar(&suggestCompany, "company", "", "Company name")
	suggestBulletsCmd.Flags().StringVar(&suggestDescription, "description", "", "What you did in the role (required)")
	jdFlags(suggestBulletsCmd)

	suggestProjectBulletsCmd.Flags().StringVar(&suggestTitle, "title", "", "Project title (required)")
	suggestProjectBulletsCmd.Flags().StringVar(&suggestDescription, "description", "", "Project description (required)")
	suggestProjectBulletsCmd.Flags().StringVar(&suggestTechnologies, "technologies", "", "Comma-separated technologies")

	jdFlags(suggestKeywordsCmd)

	suggestCmd.AddCommand(suggestSummaryCmd, suggestBulletsCmd, suggestProjectBulletsCmd, suggestKeywordsCmd)
	rootCmd.AddCommand(suggestCmd)
}

// jobDescription returns the flag text or the contents of the file flag
func jobDescription() (string, error) {
	if suggestJDFile == "" {
		return suggestJobDescription, nil
	}
	if suggestJobDescription != "" {
		return "", errors.New("use either --job-description or --job-description-file, not both")
	}
	return readFile(suggestJDFile)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runSuggestSummary(cmd *cobra.Command, _ []string) error {
	jd, err := jobDescription()
	if err != nil {
		return err
	}

	gen, closeGen, err := generatorFactory(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeGen()

	summary, err := gen.GenerateSummary(cmd.Context(), llm.SummaryRequest{
		Role:           suggestRole,
		JobDescription: jd,
		Experience:     suggestExperience,
		Skills:         splitList(suggestSkills),
	})
	if err != nil {
		return errors.Wrap(err, "generating summary")
	}
	return printSuggestion(cmd.OutOrStdout(), "summary", summary)
}

func runSuggestBullets(cmd *cobra.Command, _ []string) error {
	jd, err := jobDescription()
	if err != nil {
		return err
	}

	gen, closeGen, err := generatorFactory(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeGen()

	bullets, err := gen.GenerateBullets(cmd.Context(), llm.BulletsRequest{
		JobTitle:       suggestTitle,
		Company:        suggestCompany,
		Description:    suggestDescription,
		JobDescription: jd,
	})
	if err != nil {
		return errors.Wrap(err, "generating bullets")
	}
	return printSuggestion(cmd.OutOrStdout(), "bulletPoints", bullets)
}

func runSuggestProjectBullets(cmd *cobra.Command, _ []string) error {
	gen, closeGen, err := generatorFactory(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeGen()

	bullets, err := gen.GenerateProjectBullets(cmd.Context(), llm.ProjectBulletsRequest{
		Title:        suggestTitle,
		Description:  suggestDescription,
		Technologies: splitList(suggestTechnologies),
	})
	if err != nil {
		return errors.Wrap(err, "generating project bullets")
	}
	return printSuggestion(cmd.OutOrStdout(), "bulletPoints", bullets)
}

func runSuggestKeywords(cmd *cobra.Command, _ []string) error {
	jd, err := jobDescription()
	if err != nil {
		return err
	}

	gen, closeGen, err := generatorFactory(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer closeGen()

	keywords, err := gen.ExtractKeywords(cmd.Context(), jd)
	if err != nil {
		return errors.Wrap(err, "extracting keywords")
	}
	if settings.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintList("keywords", keywords)
	}
	return printSuggestion(cmd.OutOrStdout(), "keywords", keywords)
}

// printSuggestion prints a string or list, as JSON when --json is set
func printSuggestion(w io.Writer, key string, value any) error {
	if suggestJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{key: value})
	}

	switch v := value.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case []string:
		for _, item := range v {
			if _, err := fmt.Fprintf(w, "- %s\n", item); err != nil {
				return err
			}
		}
	}
	return nil
}

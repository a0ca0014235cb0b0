package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <record.json|record.yaml>",
	Short: "Validate a résumé record",
	Long: "Checks a record against the record JSON Schema (or --schema) and the field rules the renderer relies on.\n" +
		"Exits with an error listing every violation.",
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateSchemaFile string

func init() {
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Path to a JSON Schema to use instead of the built-in record schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	jsonData, err := recordJSON(data, filepath.Ext(path))
	if err != nil {
		return err
	}

	if validateSchemaFile != "" {
		schemaPath := schemas.ResolveSchemaPath(validateSchemaFile)
		if schemaPath == "" {
			schemaPath = validateSchemaFile
		}
		schema, err := os.ReadFile(schemaPath)
		if err != nil {
			return errors.Wrap(err, "reading schema")
		}
		err = schemas.ValidateJSONString(string(schema), string(jsonData))
		if err != nil {
			return err
		}
	} else if err := schemas.ValidateRecordJSON(jsonData); err != nil {
		return err
	}

	record, err := types.ParseRecord(jsonData, ".json")
	if err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return errors.Wrap(err, "record validation failed")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Record is valid: %s\n", path)
	return nil
}

// recordJSON returns the record as JSON, converting YAML input
func recordJSON(data []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "parsing record YAML")
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "converting YAML record to JSON")
		}
		return out, nil
	default:
		return data, nil
	}
}

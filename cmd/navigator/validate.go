package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-navigator/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <links.json>",
	Short: "Validate a navigation links JSON file",
	Long:  "Validate a JSON file produced by 'navigator parse' against the built-in navigation links schema, or against --schema.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateSchemaPath string

func init() {
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "Path to an alternative JSON Schema file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	if err := validateLinksFile(args[0], validateSchemaPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "%s is valid\n", args[0])
	return nil
}

// validateLinksFile checks path against schemaPath, or the built-in schema when schemaPath is empty
func validateLinksFile(path, schemaPath string) error {
	var err error
	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		err = schemas.ValidateJSONString(schemas.NavigationLinksSchema(), string(data))
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Errorf("%s does not validate against schema: %w", path, err)
	}
	return err
}

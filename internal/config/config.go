// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/course-navigator/internal/fetch"
	"github.com/jonathan/course-navigator/internal/scorm"
)

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 8080

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Manifest
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"` // Path or URL of imsmanifest.xml
	BasePath string `json:"base_path,omitempty" yaml:"base_path,omitempty"`

	// Learner
	StudentID   string `json:"student_id,omitempty" yaml:"student_id,omitempty"`
	StudentName string `json:"student_name,omitempty" yaml:"student_name,omitempty"`
	CourseID    string `json:"course_id,omitempty" yaml:"course_id,omitempty"`

	// Behavior
	Debug       bool   `json:"debug,omitempty" yaml:"debug,omitempty"`
	CoursesDir  string `json:"courses_dir,omitempty" yaml:"courses_dir,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"omitempty,url"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation", fieldName(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	// Validate file paths exist (if specified)
	if c.Manifest != "" && !fetch.IsRemote(c.Manifest) && !strings.HasPrefix(c.Manifest, "file://") {
		if _, err := os.Stat(c.Manifest); os.IsNotExist(err) {
			return fmt.Errorf("config error: manifest file not found: %s", c.Manifest)
		}
	}

	if c.CoursesDir != "" {
		info, err := os.Stat(c.CoursesDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: courses directory not found: %s", c.CoursesDir)
		}
	}

	return nil
}

// fieldName maps a struct field to its config-file key.
func fieldName(field string) string {
	switch field {
	case "DatabaseURL":
		return "database_url"
	case "Port":
		return "port"
	}
	return field
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Manifest == "" {
		result.Manifest = defaults.Manifest
	}
	if result.BasePath == "" {
		result.BasePath = defaults.BasePath
	}
	if result.StudentID == "" {
		result.StudentID = defaults.StudentID
	}
	if result.StudentName == "" {
		result.StudentName = defaults.StudentName
	}
	if result.CourseID == "" {
		result.CourseID = defaults.CourseID
	}
	if result.CoursesDir == "" {
		result.CoursesDir = defaults.CoursesDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ParserConfig returns the manifest parser configuration. Learner fields
// left empty take the parser's defaults.
func (c *Config) ParserConfig() scorm.Config {
	return scorm.Config{
		BasePath:    c.BasePath,
		StudentID:   c.StudentID,
		StudentName: c.StudentName,
		CourseID:    c.CourseID,
		Debug:       c.Debug,
	}.WithDefaults()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/bump/internal/analyzer"
)

// ValidationError describes a bad configuration file or value. Line and
// Column are set for YAML syntax errors; Key names the offending setting
// ("preset", "types.docs") for value errors.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Key      string
	Message  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		b.WriteString(e.FilePath)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
		}
		b.WriteString(": ")
	}
	if e.Key != "" {
		b.WriteString(e.Key + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

var yamlErrorPattern = regexp.MustCompile(`^yaml: line (\d+):(?: column (\d+):)? (.*)$`)

// ValidateYAMLSyntax checks that a .versionrc.yml parses and holds a mapping
// of settings. A missing or blank file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlSyntaxError(filePath, err)
	}

	if len(doc.Content) == 0 {
		return nil
	}
	if root := doc.Content[0]; root.Kind != yaml.MappingNode {
		return &ValidationError{
			FilePath: filePath,
			Line:     root.Line,
			Column:   root.Column,
			Message:  "expected settings such as \"preset: node\", not a list or a scalar",
		}
	}
	return nil
}

func yamlSyntaxError(filePath string, err error) *ValidationError {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
	}

	m := yamlErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	line, _ := strconv.Atoi(m[1])
	column := 1
	if m[2] != "" {
		column, _ = strconv.Atoi(m[2])
	}
	return &ValidationError{FilePath: filePath, Line: line, Column: column, Message: m[3]}
}

// newValidator returns a validator that names fields by their config key
// and knows the bump-specific "preset" and "severity" rules.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
		return slices.Contains(KnownKeys["preset"].AllowedValues, fl.Field().String())
	})
	_ = v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		_, err := analyzer.ParseSeverity(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateConfigValues checks the merged configuration. The first problem
// is reported, named by its config key.
func ValidateConfigValues(cfg *Configuration) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{Key: configKey(fe), Message: describe(fe)}
}

var mapFieldPattern = regexp.MustCompile(`^(\w+)\[(.+)\]$`)

// configKey turns "types[docs]" into "types.docs", the spelling used in
// .versionrc.yml and BUMP_TYPES_DOCS.
func configKey(fe validator.FieldError) string {
	if m := mapFieldPattern.FindStringSubmatch(fe.Field()); m != nil {
		return m[1] + "." + m[2]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	value := fmt.Sprint(fe.Value())
	switch fe.Tag() {
	case "preset":
		return fmt.Sprintf("unsupported preset %q (use %s)",
			value, strings.Join(KnownKeys["preset"].AllowedValues, ", "))
	case "severity":
		if strings.EqualFold(strings.TrimSpace(value), "major") {
			return "major cannot be configured; only breaking changes (\"!\") bump the major version"
		}
		return fmt.Sprintf("unknown bump %q (use none, patch or minor)", value)
	case "required":
		return "must not be empty"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// toSnakeCase converts a camelCase key of .versionrc.json to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

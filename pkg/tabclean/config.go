package tabclean

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/tabclean/internal/output"
	"github.com/jmylchreest/tabclean/pkg/loader"
	"github.com/jmylchreest/tabclean/pkg/normalizer"
)

// Config describes one run. Zero values select the defaults: auto-detected
// delimiter and encoding, comma output, no size limit, error on column
// collisions.
type Config struct {
	// Paths
	Input  string `json:"input" yaml:"input" validate:"required"`
	Output string `json:"output" yaml:"output" validate:"required"`
	Pretty string `json:"pretty,omitempty" yaml:"pretty,omitempty" validate:"omitempty,nefield=Output"`
	Report string `json:"report,omitempty" yaml:"report,omitempty" validate:"omitempty,nefield=Output,nefield=Pretty"`

	// Loading
	Delimiter     string `json:"delimiter,omitempty" yaml:"delimiter,omitempty" validate:"omitempty,delimiter"`
	Encoding      string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	MaxInputBytes int64  `json:"max_input_bytes,omitempty" yaml:"max_input_bytes,omitempty" validate:"gte=0"`
	SniffLines    int    `json:"sniff_lines,omitempty" yaml:"sniff_lines,omitempty" validate:"gte=0,lte=10000"`

	// Normalizing
	ColumnCollision string `json:"column_collision,omitempty" yaml:"column_collision,omitempty" validate:"omitempty,oneof=error rename"`
	UnicodeNFC      bool   `json:"unicode_nfc,omitempty" yaml:"unicode_nfc,omitempty"`

	// Writing
	OutputDelimiter string `json:"output_delimiter,omitempty" yaml:"output_delimiter,omitempty" validate:"omitempty,delimiter"`
	CRLF            bool   `json:"crlf,omitempty" yaml:"crlf,omitempty"`
	DisplayWidth    bool   `json:"display_width,omitempty" yaml:"display_width,omitempty"`
	ReportFormat    string `json:"report_format,omitempty" yaml:"report_format,omitempty" validate:"omitempty,oneof=json jsonl yaml yml"`
}

// ValidationError describes one invalid Config field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is returned by Validate when one or more fields are invalid.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		_, err := ParseDelimiter(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks c and returns ValidationErrors listing every bad field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		out = append(out, ValidationError{
			Field:   e.Field(),
			Message: formatValidationError(e),
			Value:   e.Value(),
		})
	}
	return out
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", e.Param())
	case "delimiter":
		return fmt.Sprintf("%q is not a usable delimiter", e.Value())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

var delimiterNames = map[string]rune{
	"comma":     ',',
	"tab":       '\t',
	`\t`:        '\t',
	"semicolon": ';',
	"pipe":      '|',
	"space":     ' ',
}

// ParseDelimiter converts a delimiter flag value into a rune. It accepts a
// single character or one of the names comma, tab (or \t), semicolon, pipe
// and space. An empty string returns 0, meaning auto-detect.
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if r, ok := delimiterNames[strings.ToLower(s)]; ok {
		return r, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func (c *Config) loaderOptions() []loader.Option {
	var opts []loader.Option
	if d, _ := ParseDelimiter(c.Delimiter); d != 0 {
		opts = append(opts, loader.WithDelimiter(d))
	} else if c.SniffLines > 0 {
		opts = append(opts, loader.WithSniffer(loader.FrequencySniffer{SampleLines: c.SniffLines}))
	}
	if c.Encoding != "" {
		opts = append(opts, loader.WithEncoding(c.Encoding))
	}
	if c.MaxInputBytes > 0 {
		opts = append(opts, loader.WithMaxBytes(c.MaxInputBytes))
	}
	return opts
}

func (c *Config) normalizerConfig() *normalizer.Config {
	nc := normalizer.DefaultConfig()
	if policy, err := normalizer.ParseCollisionPolicy(c.ColumnCollision); err == nil {
		nc.ColumnCollision = policy
	}
	nc.UnicodeNFC = c.UnicodeNFC
	return nc
}

func (c *Config) reportFormat() output.Format {
	if c.ReportFormat == "" {
		return output.FormatJSON
	}
	f, err := output.ParseFormat(c.ReportFormat)
	if err != nil {
		return output.FormatJSON
	}
	return f
}

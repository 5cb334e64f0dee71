// Package normalizer cleans a loaded table: header names, cell whitespace,
// blank rows, duplicate rows and missing values.
package normalizer

import "fmt"

// CollisionPolicy decides what happens when two headers clean to the same name.
type CollisionPolicy string

const (
	// CollisionError fails with *table.DuplicateColumnError.
	CollisionError CollisionPolicy = "error"
	// CollisionRename keeps the first column and suffixes later ones (_2, _3, ...).
	CollisionRename CollisionPolicy = "rename"
)

// ParseCollisionPolicy converts a flag or config value into a CollisionPolicy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case CollisionError, "":
		return CollisionError, nil
	case CollisionRename:
		return CollisionRename, nil
	default:
		return "", fmt.Errorf("unknown column collision policy: %s (use 'error' or 'rename')", s)
	}
}

// Config selects which normalization steps run. Steps always run in the
// same order; disabling one skips it without reordering the rest.
type Config struct {
	// CleanHeaders trims, underscores and lowercases column names.
	CleanHeaders bool `json:"clean_headers"`

	// HeaderSeparator replaces runs of spaces and tabs inside header names.
	HeaderSeparator string `json:"header_separator"`

	// ColumnCollision governs duplicate names produced by header cleaning.
	ColumnCollision CollisionPolicy `json:"column_collision"`

	// CleanCells trims cells and collapses internal runs of spaces and tabs.
	CleanCells bool `json:"clean_cells"`

	// UnicodeNFC applies NFC normalization to cells before trimming.
	UnicodeNFC bool `json:"unicode_nfc"`

	// MarkBlanks turns empty or whitespace-only cells into missing values.
	MarkBlanks bool `json:"mark_blanks"`

	// DropBlankRows removes rows whose cells are all missing.
	DropBlankRows bool `json:"drop_blank_rows"`

	// DropDuplicates removes rows identical to an earlier row.
	DropDuplicates bool `json:"drop_duplicates"`

	// FillMissing replaces missing values with the empty string.
	FillMissing bool `json:"fill_missing"`
}

// DefaultConfig enables every step with the error collision policy.
func DefaultConfig() *Config {
	return &Config{
		CleanHeaders:    true,
		HeaderSeparator: "_",
		ColumnCollision: CollisionError,
		CleanCells:      true,
		MarkBlanks:      true,
		DropBlankRows:   true,
		DropDuplicates:  true,
		FillMissing:     true,
	}
}

// PresetTrimOnly cleans headers and cells but keeps every row.
func PresetTrimOnly() *Config {
	cfg := DefaultConfig()
	cfg.DropBlankRows = false
	cfg.DropDuplicates = false
	return cfg
}

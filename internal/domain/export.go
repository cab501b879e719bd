package domain

import "fmt"

// ExportFormat selects the encoding of an admin data export.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat converts s into an ExportFormat. Empty means JSON.
// Returns an error wrapping ErrValidation for anything else.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportJSON:
		return ExportJSON, nil
	case ExportCSV:
		return ExportCSV, nil
	}
	return "", fmt.Errorf("%w: format must be one of json, csv", ErrValidation)
}

// Package helpers provides utility functions.
package helpers

import (
	"path/filepath"
	"strings"
)

// File kinds recognised for uploads.
const (
	KindCSV   = "csv"
	KindXLSX  = "xlsx"
	KindJSON  = "json"
	KindOther = "other"
)

// FileKind classifies an upload by its extension.
func FileKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return KindCSV
	case ".xlsx", ".xlsm":
		return KindXLSX
	case ".json":
		return KindJSON
	}
	return KindOther
}

// GetPathType returns a safe representation of file paths for logging.
func GetPathType(path string) string {
	if strings.Contains(path, "temp") || strings.Contains(path, "tmp") {
		return "temporary"
	}
	return FileKind(path)
}

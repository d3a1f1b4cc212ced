package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".csv": true,
	".txt": true,
}

// ValidateFileExtension accepts CSV exports of the menu sheet.
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return errors.New("file extension missing")
	}

	if !allowedExt[ext] {
		return errors.New("file type not allowed, export the sheet as CSV")
	}

	return nil
}

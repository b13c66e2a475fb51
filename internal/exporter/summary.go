package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "custclean/internal/errors"
)

// WriteJSON writes v to filePath as indented JSON
func WriteJSON(filePath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode JSON", err).With("path", filePath)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).With("path", filePath)
	}
	if err := os.WriteFile(filePath, append(data, '\n'), 0644); err != nil {
		return apperrors.NewStorageError("failed to write JSON", err).With("path", filePath)
	}
	return nil
}

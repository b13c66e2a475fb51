package validation

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "custclean/internal/errors"
)

// workbookExtensions are the formats excelize opens.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks the input workbook and the output locations of a run
// before any cleaning work starts.
type FileValidator struct {
	logger *slog.Logger
}

func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "file_validator"))}
}

// reject logs err at level and returns it.
func (v *FileValidator) reject(level slog.Level, msg string, err *apperrors.AppError) error {
	v.logger.Log(context.Background(), level, msg, slog.Any("error", err))
	return err
}

// ValidateFile checks that path is an existing, readable regular file.
// A missing file yields a NOT_FOUND error.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return v.reject(slog.LevelError, "Input file does not exist",
			apperrors.NewNotFoundError("file", err).With("path", path))
	case err != nil:
		return v.reject(slog.LevelError, "Input file cannot be inspected",
			apperrors.NewStorageError("failed to stat "+path, err).With("path", path))
	case info.IsDir():
		return v.reject(slog.LevelError, "Input path is a directory",
			apperrors.NewValidationError(path+" is a directory, not a file", nil).With("path", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return v.reject(slog.LevelError, "Input file is not readable",
			apperrors.NewStorageError(path+" is not readable", err).With("path", path))
	}
	_ = f.Close()

	v.logger.Debug("Input file validated", slog.String("path", path), slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks ValidateFile plus the workbook format. Office lock
// files (~$name.xlsx) are refused.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if ext := strings.ToLower(filepath.Ext(base)); !workbookExtensions[ext] {
		return v.reject(slog.LevelError, "Input is not a supported workbook",
			apperrors.NewValidationError(path+" is not a supported workbook", nil).
				With("path", path).
				With("extension", ext))
	}
	if strings.HasPrefix(base, "~$") {
		return v.reject(slog.LevelWarn, "Refusing office lock file",
			apperrors.NewValidationError(path+" is a temporary Excel file", nil).With("path", path))
	}
	return nil
}

// ValidateOutputDirectory creates dir when needed and probes it for write
// access with a temporary file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return v.reject(slog.LevelError, "Output directory cannot be created",
			apperrors.NewStorageError("failed to create output directory "+dir, err).With("directory", dir))
	}

	probe, err := os.CreateTemp(dir, ".custclean-probe-*")
	if err != nil {
		return v.reject(slog.LevelError, "Output directory is not writable",
			apperrors.NewStorageError("output directory "+dir+" is not writable", err).With("directory", dir))
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that path is not a directory and that its parent
// directory accepts writes.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return v.reject(slog.LevelError, "Output path is a directory",
			apperrors.NewValidationError("output "+path+" is a directory", nil).With("path", path))
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

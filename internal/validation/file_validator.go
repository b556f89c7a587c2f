package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	apperrors "stockprep/internal/errors"
)

// ErrNotRegularFile is returned for an input path that exists but is a
// directory or device.
var ErrNotRegularFile = errors.New("not a regular file")

// FileValidator checks pipeline inputs and the output directory before any
// work is done.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "validator"))}
}

// ValidateInputs checks every path and reports all unreadable ones at once,
// each as an input error.
func (v *FileValidator) ValidateInputs(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := v.ValidateFile(p); err != nil {
			errs = append(errs, apperrors.NewInputError(p, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFile checks that path is a regular file that can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	size, err := readableSize(path)
	if err != nil {
		v.logger.Error("input not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return err
	}

	v.logger.Debug("input validated",
		slog.String("file", path),
		slog.Int64("size", size))
	return nil
}

func readableSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), f.Close()
}

// ValidateOutputDirectory creates dir if needed and proves it is writable
// by creating and removing a scratch file.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return v.storageError(dir, "cannot create output directory", err)
	}

	scratch, err := os.CreateTemp(dir, ".stockprep-write-check-*")
	if err != nil {
		return v.storageError(dir, "output directory is not writable", err)
	}
	name := scratch.Name()
	scratch.Close()
	if err := os.Remove(name); err != nil {
		return v.storageError(dir, "cannot remove scratch file", err)
	}

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

func (v *FileValidator) storageError(dir, msg string, err error) error {
	v.logger.Error(msg,
		slog.String("directory", dir),
		slog.String("error", err.Error()))
	return apperrors.NewStorageError(fmt.Sprintf("%s: %s", msg, dir), err).WithContext("path", dir)
}

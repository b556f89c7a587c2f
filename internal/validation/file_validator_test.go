package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stockprep/internal/errors"
	"stockprep/internal/shared/testutil"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(file, []byte("Date,Ticker\n"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"existing file", file, nil},
		{"missing file", filepath.Join(dir, "missing.csv"), os.ErrNotExist},
		{"directory", dir, ErrNotRegularFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateFile(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateInputs(t *testing.T) {
	dir := t.TempDir()
	prices := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(prices, nil, 0644))
	missing := filepath.Join(dir, "sentiments.csv")

	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	require.NoError(t, v.ValidateInputs(prices))

	err := v.ValidateInputs(prices, missing)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInput))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, missing, appErr.Context["path"])

	testutil.AssertLogContains(t, handler, slog.LevelError, "input not readable")
}

func TestFileValidator_ValidateInputsReportsAll(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")

	err := NewFileValidator(nil).ValidateInputs(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), a)
	assert.Contains(t, err.Error(), b)
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, NewFileValidator(nil).ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "scratch file is removed")
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		err := NewFileValidator(nil).ValidateOutputDirectory(file)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
	})
}

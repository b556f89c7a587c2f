package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file the pipeline writes.
// This is the single source of truth for output locations.
type Paths struct {
	OutputDir     string
	StocksCSV     string
	SentimentsCSV string
	JoinedCSV     string
	JoinedXLSX    string
}

// NewPaths resolves the output table locations inside outputDir.
// An empty outputDir means the current working directory.
func NewPaths(outputDir string) *Paths {
	if outputDir == "" {
		outputDir = "."
	}
	return &Paths{
		OutputDir:     outputDir,
		StocksCSV:     filepath.Join(outputDir, StocksCSVName),
		SentimentsCSV: filepath.Join(outputDir, SentimentsCSVName),
		JoinedCSV:     filepath.Join(outputDir, JoinedCSVName),
		JoinedXLSX:    filepath.Join(outputDir, JoinedXLSXName),
	}
}

// EnsureDirectories creates the output directory if it doesn't exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.OutputDir, err)
	}
	slog.Debug("Ensured directory exists", slog.String("directory", p.OutputDir))
	return nil
}

// GetOutputPath returns the path for a file in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved output locations
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.String("output_dir", p.OutputDir),
		slog.Group("tables",
			slog.String("stocks_csv", p.StocksCSV),
			slog.String("sentiments_csv", p.SentimentsCSV),
			slog.String("joined_csv", p.JoinedCSV),
		))
}

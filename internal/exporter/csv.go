package exporter

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stockprep/internal/config"
)

// TableWriter writes delimited tables into the output directory.
type TableWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewTableWriter creates a new table writer instance
func NewTableWriter(paths *config.Paths, logger *slog.Logger) *TableWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableWriter{paths: paths, logger: logger}
}

// WriteOptions configures table writing behavior
type WriteOptions struct {
	Headers []string
	// Quoted lists the columns always wrapped in double quotes. Quotes
	// are written as-is, content is never escaped.
	Quoted []int
}

// StreamWriter writes one table record by record. The table is built in a
// temporary file next to the target and only renamed into place by Close,
// so readers never observe a partial table.
type StreamWriter struct {
	file   *os.File
	buf    *bufio.Writer
	target string
	quoted map[int]bool
	rows   int
	logger *slog.Logger
}

// CreateStreamWriter creates a new streaming table writer
func (w *TableWriter) CreateStreamWriter(fileName string, options WriteOptions) (*StreamWriter, error) {
	fullPath := w.resolvePath(fileName)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	sw := &StreamWriter{
		file:   file,
		buf:    bufio.NewWriterSize(file, 1<<20),
		target: fullPath,
		quoted: make(map[int]bool, len(options.Quoted)),
		logger: w.logger,
	}
	for _, i := range options.Quoted {
		sw.quoted[i] = true
	}

	if len(options.Headers) > 0 {
		if err := sw.writeLine(options.Headers, false); err != nil {
			sw.Abort()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return sw, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writeLine(record, true); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *StreamWriter) writeLine(fields []string, quote bool) error {
	for i, f := range fields {
		if i > 0 {
			s.buf.WriteByte(',')
		}
		if quote && s.quoted[i] {
			s.buf.WriteByte('"')
			s.buf.WriteString(f)
			s.buf.WriteByte('"')
			continue
		}
		s.buf.WriteString(f)
	}
	// bufio.Writer errors are sticky, so checking the last write suffices.
	return s.buf.WriteByte('\n')
}

// Rows returns the number of records written so far.
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Close flushes the table and moves it into place.
func (s *StreamWriter) Close() error {
	if err := s.buf.Flush(); err != nil {
		s.Abort()
		return fmt.Errorf("failed to flush %s: %w", s.target, err)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to close %s: %w", s.target, err)
	}
	if err := os.Chmod(s.file.Name(), 0644); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to set permissions on %s: %w", s.target, err)
	}
	if err := os.Rename(s.file.Name(), s.target); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to move table into place: %w", err)
	}

	s.logger.Debug("table written",
		slog.String("path", s.target),
		slog.Int("rows", s.rows))
	return nil
}

// Abort discards the partially written table.
func (s *StreamWriter) Abort() {
	s.file.Close()
	os.Remove(s.file.Name())
}

// resolvePath places relative names inside the output directory
func (w *TableWriter) resolvePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return w.paths.GetOutputPath(fileName)
}

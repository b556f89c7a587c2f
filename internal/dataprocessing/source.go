package dataprocessing

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "stockprep/internal/errors"
)

// RowSource yields the rows of a tabular input, header first. Next returns
// io.EOF once the input is exhausted. Blank data rows are skipped; the
// header row is always returned as read.
type RowSource interface {
	Next() ([]string, error)
	Close() error
}

// OpenSource opens path as a RowSource. Workbooks (.xlsx) are read from
// their first sheet, anything else as comma-delimited text.
func OpenSource(path string) (RowSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return openSheetSource(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError(path, err)
	}
	return newLineSource(f), nil
}

// lineSource reads comma-delimited text. Lines may be of any length.
type lineSource struct {
	r      *bufio.Reader
	closer io.Closer
	header bool
}

func newLineSource(rc io.ReadCloser) *lineSource {
	return &lineSource{
		r:      bufio.NewReaderSize(rc, 1<<20),
		closer: rc,
	}
}

func (s *lineSource) Next() ([]string, error) {
	for {
		line, err := s.r.ReadString('\n')
		if line == "" && err != nil {
			return nil, err
		}

		if !s.header {
			s.header = true
			return SplitLine(strings.TrimPrefix(line, utf8BOM)), nil
		}

		if strings.TrimRight(line, "\r\n") != "" {
			return SplitLine(line), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *lineSource) Close() error {
	return s.closer.Close()
}

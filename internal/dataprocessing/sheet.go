package dataprocessing

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "stockprep/internal/errors"
)

// sheetSource streams the rows of a workbook's first sheet.
type sheetSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header bool
}

func openSheetSource(path string) (*sheetSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewInputError(path, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, apperrors.NewInputError(path, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, apperrors.NewParsingError(fmt.Sprintf("cannot read sheet %q of %s", sheets[0], path), err)
	}

	return &sheetSource{file: f, rows: rows}, nil
}

func (s *sheetSource) Next() ([]string, error) {
	for s.rows.Next() {
		cells, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}

		if !s.header {
			s.header = true
			if len(cells) > 0 {
				cells[0] = strings.TrimPrefix(cells[0], utf8BOM)
			}
			return cells, nil
		}

		if !blankRow(cells) {
			return cells, nil
		}
	}

	if err := s.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *sheetSource) Close() error {
	if err := s.rows.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

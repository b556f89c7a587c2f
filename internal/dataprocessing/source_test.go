package dataprocessing

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, src RowSource) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := src.Next()
		if err == io.EOF {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestLineSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"empty", "", nil},
		{"header only without newline", "a,b", [][]string{{"a", "b"}}},
		{"blank header kept", "\nx,y\n", [][]string{{""}, {"x", "y"}}},
		{"blank rows skipped", "h\n\n\r\nx\n\n", [][]string{{"h"}, {"x"}}},
		{"last line without newline", "h\ny", [][]string{{"h"}, {"y"}}},
		{"bom stripped from header only", "\ufeffh\n\ufeffx\n", [][]string{{"h"}, {"\ufeffx"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newLineSource(io.NopCloser(strings.NewReader(tt.input)))
			defer src.Close()
			assert.Equal(t, tt.want, drain(t, src))
		})
	}
}

func TestLineSourceLongLine(t *testing.T) {
	long := strings.Repeat("x", 3<<20)
	src := newLineSource(io.NopCloser(strings.NewReader("h\n" + long + ",1\n")))

	rows := drain(t, src)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1][0], 3<<20)
	assert.Equal(t, "1", rows[1][1])
}

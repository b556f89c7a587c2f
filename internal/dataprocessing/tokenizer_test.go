package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"escaped quote", `AAA,"he said ""hi""",5`, []string{"AAA", `he said "hi"`, "5"}},
		{"quoted comma", `X,"up, then down",Positive`, []string{"X", "up, then down", "Positive"}},
		{"quote toggles mid field", `ab"c"d,e`, []string{"abcd", "e"}},
		{"empty line", "", []string{""}},
		{"trailing comma", "a,", []string{"a", ""}},
		{"only commas", ",,", []string{"", "", ""}},
		{"crlf stripped", "a,b\r\n", []string{"a", "b"}},
		{"cr stripped", "a,b\r", []string{"a", "b"}},
		{"lf stripped", "a,b\n", []string{"a", "b"}},
		{"unterminated quote", `a,"b,c`, []string{"a", "b,c"}},
		{"empty quoted", `a,"",c`, []string{"a", "", "c"}},
		{"whitespace kept", " a , b ", []string{" a ", " b "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"NA", 0},
		{"na", 0},
		{"NaN", 0},
		{"null", 0},
		{"NULL", 0},
		{"1,234.5", 1234.5},
		{"abc", 0},
		{"12abc", 12},
		{"100abc", 100},
		{"12.5%", 12.5},
		{"1,234.5 INR", 1234.5},
		{"$12", 0},
		{"-", 0},
		{".", 0},
		{".5", 0.5},
		{"5.", 5},
		{"+7", 7},
		{"1e", 1},
		{"2e+", 2},
		{"3E-2x", 0.03},
		{"4.5.6", 4.5},
		{"12 34", 12},
		{" 42 ", 42},
		{"-3.25", -3.25},
		{"1e3", 1000},
		{"1,000,000", 1000000},
		{"1e400", 0},
		{"inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.in), 1e-12)
		})
	}
}

func TestPadFields(t *testing.T) {
	assert.Equal(t, []string{"a", "", ""}, padFields([]string{"a"}, 3))
	assert.Equal(t, []string{"a", "b"}, padFields([]string{"a", "b"}, 1))
}

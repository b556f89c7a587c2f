package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// SplitLine tokenizes one comma-delimited line.
//
// A double quote toggles quoting wherever it appears in a field, and a
// doubled quote inside a quoted section yields a literal quote. A trailing
// line terminator is ignored. Field counts are not validated; an empty line
// yields a single empty field.
func SplitLine(line string) []string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields := make([]string, 0, strings.Count(line, ",")+1)
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					cur.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
				continue
			}
			cur.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	return append(fields, cur.String())
}

// ParseNumber coerces a numeric cell to float64. Thousands separators are
// removed, then the longest leading decimal number is read and any trailing
// text ignored, so "12.5%" is 12.5 and "1,234.5 INR" is 1234.5. Blank
// cells, NA/NaN/NULL markers, cells without a leading number and values
// outside the float64 range become 0.
func ParseNumber(field string) float64 {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0
	}
	if strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") || strings.EqualFold(s, "NULL") {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	n := numberPrefix(s)
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// numberPrefix returns the length of the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits], with at least one mantissa digit.
// An exponent marker not followed by digits is left out.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// padFields extends fields with empty strings up to n entries.
func padFields(fields []string, n int) []string {
	for len(fields) < n {
		fields = append(fields, "")
	}
	return fields
}

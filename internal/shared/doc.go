// Package shared holds helpers used by more than one package.
//
// testutil provides the buffered slog handler used to assert on log output
// and fixture writers for CSV and XLSX inputs.
package shared

// Package config provides centralized configuration management for stockprep.
// It handles loading configuration from multiple sources, validation, and
// resolution of the output table paths.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// Command-line flags in cmd/preprocess are applied on top of the loaded value.
//
// # Environment Variables
//
// All environment variables follow the pattern STOCKPREP_<SECTION>_<FIELD>:
//
//	STOCKPREP_INPUT_PRICES=india_stocks.csv
//	STOCKPREP_INPUT_SENTIMENTS=ticker_sentiments.csv
//	STOCKPREP_OUTPUT_DIR=out
//	STOCKPREP_JOIN_WORKERS=8
//	STOCKPREP_LOGGING_LEVEL=debug
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time:
// input paths are required, counts are non-negative and enumerated settings
// (log level, exporters) must be one of the known values.
package config

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockprep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPricesFile, cfg.Input.Prices)
				assert.Equal(t, DefaultSentimentsFile, cfg.Input.Sentiments)
				assert.Equal(t, ".", cfg.Output.Dir)
				assert.Equal(t, 0, cfg.Join.Workers)
				assert.Equal(t, DefaultPreviewRows, cfg.Preview.Rows)
				assert.Equal(t, DefaultPreviewPerRow, cfg.Preview.PerRow)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: `
input:
  prices: data/prices.csv
  sentiments: data/sentiments.csv
output:
  dir: out
  xlsx: true
join:
  workers: 3
logging:
  level: DEBUG
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/prices.csv", cfg.Input.Prices)
				assert.Equal(t, "data/sentiments.csv", cfg.Input.Sentiments)
				assert.Equal(t, "out", cfg.Output.Dir)
				assert.True(t, cfg.Output.XLSX)
				assert.Equal(t, 3, cfg.Join.Workers)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched sections keep their defaults
				assert.Equal(t, DefaultPreviewRows, cfg.Preview.Rows)
			},
		},
		{
			name: "env takes precedence over file",
			file: `
join:
  workers: 3
output:
  dir: from-file
`,
			env: map[string]string{
				"STOCKPREP_JOIN_WORKERS": "7",
				"STOCKPREP_INPUT_PRICES": "env_prices.csv",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Join.Workers)
				assert.Equal(t, "env_prices.csv", cfg.Input.Prices)
				assert.Equal(t, "from-file", cfg.Output.Dir)
			},
		},
		{
			name:    "negative workers rejected",
			env:     map[string]string{"STOCKPREP_JOIN_WORKERS": "-1"},
			wantErr: true,
		},
		{
			name:    "unknown log level rejected",
			file:    "logging:\n  level: loud\n",
			wantErr: true,
		},
		{
			name:    "empty prices path rejected",
			file:    "input:\n  prices: \"\"\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "join: [workers",
			wantErr: true,
		},
		{
			name:    "non numeric env value",
			env:     map[string]string{"STOCKPREP_PREVIEW_ROWS": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_FileOutputNeedsPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	assert.Error(t, cfg.Validate())

	cfg.Logging.FilePath = "logs/run.log"
	assert.NoError(t, cfg.Validate())
}

func TestJoinConfig_EffectiveWorkers(t *testing.T) {
	assert.Equal(t, 4, JoinConfig{Workers: 4}.EffectiveWorkers())
	assert.Equal(t, runtime.GOMAXPROCS(0), JoinConfig{}.EffectiveWorkers())
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewConfig tests that NewConfig returns a Config with correct default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.InputPath != DefaultInputPath {
		t.Errorf("expected InputPath %q, got %q", DefaultInputPath, cfg.InputPath)
	}
	if cfg.OutputPath != DefaultOutputPath {
		t.Errorf("expected OutputPath %q, got %q", DefaultOutputPath, cfg.OutputPath)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("expected Encoding utf-8, got %q", cfg.Encoding)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("expected LogFormat text, got %q", cfg.LogFormat)
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
	}
	if cfg.SaveHistory {
		t.Error("expected history to be disabled by default")
	}
	if cfg.Verbose {
		t.Error("expected verbose to be disabled by default")
	}
	if cfg.MarkdownPath != "" || cfg.JSONPath != "" || cfg.XLSXPath != "" {
		t.Error("expected optional outputs to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "valid defaults",
			modify:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "empty input",
			modify:  func(c *Config) { c.InputPath = "" },
			wantErr: ErrNoInput,
		},
		{
			name:    "empty output",
			modify:  func(c *Config) { c.OutputPath = "" },
			wantErr: ErrNoOutput,
		},
		{
			name: "output equals input",
			modify: func(c *Config) {
				c.InputPath = "data/in.csv"
				c.OutputPath = "data/../data/in.csv"
			},
			wantErr: ErrSamePath,
		},
		{
			name:    "markdown overwrites input",
			modify:  func(c *Config) { c.MarkdownPath = c.InputPath },
			wantErr: ErrSamePath,
		},
		{
			name:    "xlsx overwrites csv output",
			modify:  func(c *Config) { c.XLSXPath = c.OutputPath },
			wantErr: ErrConflictingOutputs,
		},
		{
			name: "markdown and json share a file",
			modify: func(c *Config) {
				c.MarkdownPath = "summary.txt"
				c.JSONPath = "./summary.txt"
			},
			wantErr: ErrConflictingOutputs,
		},
		{
			name: "all outputs distinct",
			modify: func(c *Config) {
				c.MarkdownPath = "summary.md"
				c.JSONPath = "summary.json"
				c.XLSXPath = "report.xlsx"
			},
			wantErr: nil,
		},
		{
			name:    "unknown encoding",
			modify:  func(c *Config) { c.Encoding = "klingon" },
			wantErr: ErrUnknownEncoding,
		},
		{
			name:    "latin1 encoding",
			modify:  func(c *Config) { c.Encoding = "iso-8859-1" },
			wantErr: nil,
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
		{
			name:    "json log format",
			modify:  func(c *Config) { c.LogFormat = "json" },
			wantErr: nil,
		},
		{
			name: "history without directory",
			modify: func(c *Config) {
				c.SaveHistory = true
				c.DBDir = ""
			},
			wantErr: ErrNoDBDir,
		},
		{
			name:    "empty directory without history",
			modify:  func(c *Config) { c.DBDir = "" },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.regionreport")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".regionreport")
		content := `input: data/in.csv
output: out/report.csv
encoding: windows-1252
markdown: out/summary.md
json: out/run.json
xlsx: out/report.xlsx
history: true
db_dir: /var/lib/regionreport
verbose: true
log_format: json
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.InputPath != "data/in.csv" {
			t.Errorf("expected input data/in.csv, got %q", cfg.InputPath)
		}
		if cfg.OutputPath != "out/report.csv" {
			t.Errorf("expected output out/report.csv, got %q", cfg.OutputPath)
		}
		if cfg.Encoding != "windows-1252" {
			t.Errorf("expected encoding windows-1252, got %q", cfg.Encoding)
		}
		if cfg.MarkdownPath != "out/summary.md" || cfg.JSONPath != "out/run.json" || cfg.XLSXPath != "out/report.xlsx" {
			t.Errorf("unexpected optional outputs: %q %q %q", cfg.MarkdownPath, cfg.JSONPath, cfg.XLSXPath)
		}
		if !cfg.SaveHistory {
			t.Error("expected history enabled")
		}
		if cfg.DBDir != "/var/lib/regionreport" {
			t.Errorf("expected db dir /var/lib/regionreport, got %q", cfg.DBDir)
		}
		if !cfg.Verbose {
			t.Error("expected verbose enabled")
		}
		if cfg.LogFormat != "json" {
			t.Errorf("expected log format json, got %q", cfg.LogFormat)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".regionreport")
		if err := os.WriteFile(configPath, []byte("output: custom.csv\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.InputPath != DefaultInputPath {
			t.Errorf("expected default input, got %q", cfg.InputPath)
		}
		if cfg.OutputPath != "custom.csv" {
			t.Errorf("expected custom.csv, got %q", cfg.OutputPath)
		}
		if cfg.SaveHistory {
			t.Error("expected history to stay disabled")
		}
	})

	t.Run("explicit false overrides true", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".regionreport")
		if err := os.WriteFile(configPath, []byte("history: false\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cfg.SaveHistory = true
		file.Apply(cfg)

		if cfg.SaveHistory {
			t.Error("expected history disabled by file")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".regionreport")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil {
			t.Fatal("expected error for invalid YAML")
		}
		if !strings.Contains(err.Error(), configPath) {
			t.Errorf("expected error to name the file, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("input: a.csv\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile(configPath)
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		result := FindConfigFile("/nonexistent/path/config.yaml")
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds file in current directory", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("input: a.csv\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		resolved, err := filepath.EvalSymlinks(result)
		if err != nil {
			t.Fatalf("failed to resolve %q: %v", result, err)
		}
		expected, err := filepath.EvalSymlinks(configPath)
		if err != nil {
			t.Fatalf("failed to resolve %q: %v", configPath, err)
		}
		if resolved != expected {
			t.Errorf("expected %q, got %q", expected, resolved)
		}
	})
}

// TestApplyEnv tests environment variable overrides.
func TestApplyEnv(t *testing.T) {
	t.Run("set variables override", func(t *testing.T) {
		t.Setenv("REGIONREPORT_INPUT", "env/in.csv")
		t.Setenv("REGIONREPORT_DB_DIR", "/tmp/history")
		t.Setenv("REGIONREPORT_HISTORY", "true")
		t.Setenv("REGIONREPORT_LOG_FORMAT", "json")
		t.Setenv("REGIONREPORT_XLSX", "env.xlsx")

		cfg := NewConfig()
		if err := ApplyEnv(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.InputPath != "env/in.csv" {
			t.Errorf("expected env input, got %q", cfg.InputPath)
		}
		if cfg.DBDir != "/tmp/history" {
			t.Errorf("expected env db dir, got %q", cfg.DBDir)
		}
		if !cfg.SaveHistory {
			t.Error("expected history enabled")
		}
		if cfg.LogFormat != "json" {
			t.Errorf("expected json log format, got %q", cfg.LogFormat)
		}
		if cfg.XLSXPath != "env.xlsx" {
			t.Errorf("expected env xlsx, got %q", cfg.XLSXPath)
		}
	})

	t.Run("unset variables keep current values", func(t *testing.T) {
		cfg := NewConfig()
		cfg.OutputPath = "from-file.csv"
		cfg.Verbose = true

		if err := ApplyEnv(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.OutputPath != "from-file.csv" {
			t.Errorf("expected output to be kept, got %q", cfg.OutputPath)
		}
		if !cfg.Verbose {
			t.Error("expected verbose to be kept")
		}
		if cfg.InputPath != DefaultInputPath {
			t.Errorf("expected default input, got %q", cfg.InputPath)
		}
	})

	t.Run("unprefixed variables are ignored", func(t *testing.T) {
		t.Setenv("INPUT", "wrong.csv")

		cfg := NewConfig()
		if err := ApplyEnv(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.InputPath != DefaultInputPath {
			t.Errorf("expected default input, got %q", cfg.InputPath)
		}
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("REGIONREPORT_HISTORY", "maybe")

		err := ApplyEnv(NewConfig())
		if err == nil {
			t.Fatal("expected error for invalid boolean")
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with app name", func(t *testing.T) {
		t.Parallel()

		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("unexpected data dir %q", XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with app name", func(t *testing.T) {
		t.Parallel()

		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("unexpected config dir %q", XDGConfigDir())
		}
	})
}

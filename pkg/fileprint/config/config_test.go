package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/spf13/viper"
)

func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Layout != DefaultLayout {
		t.Errorf("Layout = %q, want %q", cfg.Layout, DefaultLayout)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.BlockSize != DefaultBlockSize {
		t.Errorf("BlockSize = %q, want %q", cfg.BlockSize, DefaultBlockSize)
	}
	if !cfg.Catalog.ReuseMtime || !cfg.Catalog.ReuseCtime {
		t.Errorf("Catalog reuse = %v/%v, want true/true", cfg.Catalog.ReuseMtime, cfg.Catalog.ReuseCtime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_LoggingDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Rotation.MaxSize != DefaultLogMaxSize {
		t.Errorf("Rotation.MaxSize = %q, want %q", cfg.Logging.Rotation.MaxSize, DefaultLogMaxSize)
	}
	if cfg.Logging.Rotation.MaxBackups != 5 {
		t.Errorf("Rotation.MaxBackups = %d, want 5", cfg.Logging.Rotation.MaxBackups)
	}
	if cfg.Logging.Components["engine"] != "info" {
		t.Errorf("Components[engine] = %q, want info", cfg.Logging.Components["engine"])
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := isolate(t)
	configDir := filepath.Join(tempDir, ".config", "fileprint")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
layout: v1
output: json
block_size: 4K
catalog:
  path: /custom/catalog
  reuse_ctime: false
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	layout, err := cfg.RecordLayout()
	if err != nil || layout != record.V1 {
		t.Errorf("RecordLayout() = %v, %v; want v1", layout, err)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if n, err := cfg.BlockBytes(); err != nil || n != 4096 {
		t.Errorf("BlockBytes() = %d, %v; want 4096", n, err)
	}
	if cfg.Catalog.Path != "/custom/catalog" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if !cfg.Catalog.ReuseMtime || cfg.Catalog.ReuseCtime {
		t.Errorf("Catalog reuse = %v/%v, want true/false", cfg.Catalog.ReuseMtime, cfg.Catalog.ReuseCtime)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := isolate(t)
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", "fileprint")
	if err := os.MkdirAll(xdgConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create XDG config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(xdgConfigDir, "config.yaml"), []byte("output: yaml"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("FILEPRINT_LAYOUT", "v1")
	t.Setenv("FILEPRINT_CATALOG_REUSE_MTIME", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout != "v1" {
		t.Errorf("Layout = %q, want v1", cfg.Layout)
	}
	if cfg.Catalog.ReuseMtime {
		t.Error("Catalog.ReuseMtime = true, want false")
	}
}

func TestRead_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	v := viper.New()
	Prepare(v, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Read(v); err == nil {
		t.Error("Read() with missing explicit file: want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: Config{Layout: "v2", BlockSize: "128K"}},
		{name: "v1 tiny blocks", cfg: Config{Layout: "1", BlockSize: "1"}},
		{name: "bad layout", cfg: Config{Layout: "v9", BlockSize: "128K"}, wantErr: true},
		{name: "zero block size", cfg: Config{Layout: "v2", BlockSize: "0"}, wantErr: true},
		{name: "garbage block size", cfg: Config{Layout: "v2", BlockSize: "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogPath(t *testing.T) {
	home := isolate(t)

	cfg := &Config{}
	got, err := cfg.CatalogPath()
	if err != nil {
		t.Fatalf("CatalogPath() error = %v", err)
	}
	if got != DefaultCatalogPath() {
		t.Errorf("CatalogPath() = %q, want %q", got, DefaultCatalogPath())
	}

	cfg.Catalog.Path = "~/fp"
	got, err = cfg.CatalogPath()
	if err != nil {
		t.Fatalf("CatalogPath() error = %v", err)
	}
	if want := filepath.Join(home, "fp"); got != want {
		t.Errorf("CatalogPath() = %q, want %q", got, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		if dir != "/custom/config/fileprint" {
			t.Errorf("ConfigDir() = %q, want %q", dir, "/custom/config/fileprint")
		}
	})

	t.Run("uses HOME/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		tempDir := isolate(t)

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		expected := filepath.Join(tempDir, ".config", "fileprint")
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	t.Run("creates a loadable default config file", func(t *testing.T) {
		tempDir := isolate(t)

		created, err := WriteDefault()
		if err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}
		if !created {
			t.Error("WriteDefault() created = false, want true")
		}

		configPath := filepath.Join(tempDir, ".config", "fileprint", "config.yaml")
		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file not created: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() after WriteDefault error = %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config does not validate: %v", err)
		}
	})

	t.Run("does not overwrite existing config", func(t *testing.T) {
		tempDir := isolate(t)

		configDir := filepath.Join(tempDir, ".config", "fileprint")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		existing := "# existing config\nlayout: v1"
		if err := os.WriteFile(configPath, []byte(existing), 0o644); err != nil {
			t.Fatalf("failed to write existing config: %v", err)
		}

		created, err := WriteDefault()
		if err != nil {
			t.Fatalf("WriteDefault() error = %v", err)
		}
		if created {
			t.Error("WriteDefault() created = true, want false")
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			t.Fatalf("failed to read config file: %v", err)
		}
		if string(content) != existing {
			t.Errorf("config file was overwritten: got %q", string(content))
		}
	})
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "expands tilde", input: "~/data/fileprint", want: filepath.Join(homeDir, "data/fileprint")},
		{name: "leaves absolute path unchanged", input: "/var/lib/fileprint", want: "/var/lib/fileprint"},
		{name: "leaves relative path unchanged", input: "data/fileprint", want: "data/fileprint"},
		{name: "handles tilde only", input: "~", want: homeDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

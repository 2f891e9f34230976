package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every TASKNEST_* variable.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		"TASKNEST_BACKEND", "TASKNEST_DATA_FILE", "TASKNEST_DB", "TASKNEST_ON_CORRUPT",
		"TASKNEST_LOG_LEVEL", "TASKNEST_LOG_FORMAT", "TASKNEST_LOG_TIMESTAMPS", "TASKNEST_LOG_CALLER", "TASKNEST_OTLP_ENDPOINT",
	} {
		t.Setenv(name, "")
	}
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevDir) })
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("tasknest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestDefaults(t *testing.T) {
	home, project := isolate(t)

	cws, err := LoadWithSources(newFlagSet(), nil)
	require.NoError(t, err)
	cfg := cws.Config

	require.Equal(t, "file", cfg.Backend)
	require.Equal(t, filepath.Join(home, ".tasknest", "store.json"), cfg.DataFile)
	require.Equal(t, filepath.Join(home, ".tasknest", "tasknest.db"), cfg.DBPath)
	require.Equal(t, "fail", cfg.OnCorrupt)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
	require.False(t, cfg.LogTimestamps)
	require.False(t, cfg.LogCaller)
	require.Equal(t, resolve(t, project), resolve(t, cfg.ProjectRoot))
	require.Empty(t, cws.Files)

	for _, field := range Fields() {
		require.Equal(t, SourceDefault, cws.Sources[field], field)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".tasknest", "tasknest.toml"), `
backend = "sqlite"
log_level = "debug"
log_format = "json"
`)
	writeFile(t, filepath.Join(project, "tasknest.toml"), `
log_level = "warn"
data_file = "data/tasks.json"
`)
	t.Setenv("TASKNEST_LOG_FORMAT", "logfmt")
	t.Setenv("TASKNEST_LOG_TIMESTAMPS", "yes")
	t.Setenv("TASKNEST_OTLP_ENDPOINT", "http://collector:4318")

	fs := newFlagSet()
	cws, err := LoadWithSources(fs, []string{"-on-corrupt", "reset", "ls", "-category", "Work"})
	require.NoError(t, err)
	cfg := cws.Config

	require.Equal(t, "sqlite", cfg.Backend)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "logfmt", cfg.LogFormat)
	require.True(t, cfg.LogTimestamps)
	require.Equal(t, "reset", cfg.OnCorrupt)
	require.Equal(t, resolve(t, filepath.Join(project, "data", "tasks.json")), resolve(t, cfg.DataFile))

	require.Equal(t, SourceUserFile, cws.Sources["backend"])
	require.Equal(t, SourceProjFile, cws.Sources["log_level"])
	require.Equal(t, SourceProjFile, cws.Sources["data_file"])
	require.Equal(t, SourceEnv, cws.Sources["log_format"])
	require.Equal(t, SourceEnv, cws.Sources["log_timestamps"])
	require.Equal(t, SourceFlag, cws.Sources["on_corrupt"])
	require.Equal(t, SourceEnv, cws.Sources["otlp_endpoint"])
	require.Equal(t, "http://collector:4318", cfg.OTLPEndpoint)
	require.Equal(t, SourceDefault, cws.Sources["db_path"])
	require.Len(t, cws.Files, 2)

	require.Equal(t, []string{"ls", "-category", "Work"}, fs.Args())
}

func TestLoadXDGUserConfig(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME applies to Linux and BSD")
	}
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "tasknest", "tasknest.toml"), `backend = "memory"`)

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Backend)
}

func TestDotfileProjectConfig(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, ".tasknest.toml"), `on_corrupt = "RESET"`)

	cfg, err := Load(newFlagSet(), nil)
	require.NoError(t, err)
	require.Equal(t, "reset", cfg.OnCorrupt)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		file string
		want string
	}{
		{name: "backend flag", args: []string{"-backend", "redis"}, want: "unknown backend"},
		{name: "on_corrupt env", env: map[string]string{"TASKNEST_ON_CORRUPT": "ignore"}, want: "unknown policy"},
		{name: "log format", args: []string{"-log-format", "xml"}, want: "unknown format"},
		{name: "bool env", env: map[string]string{"TASKNEST_LOG_CALLER": "sometimes"}, want: "invalid boolean"},
		{name: "unknown key", file: "colour = \"red\"\n", want: "unknown keys: colour"},
		{name: "bad toml", file: "backend = \n", want: "loading project config file"},
		{name: "unknown flag", args: []string{"-nope"}, want: "parsing flags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, project := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				writeFile(t, filepath.Join(project, "tasknest.toml"), tt.file)
			}
			_, err := Load(newFlagSet(), tt.args)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TASKNEST_TEST_DIR", "/srv/nest")

	require.Equal(t, "", expandPath(""))
	require.Equal(t, home, expandPath("~"))
	require.Equal(t, filepath.Join(home, "a", "b.json"), expandPath("~/a/b.json"))
	require.Equal(t, "/srv/nest/store.json", expandPath("$TASKNEST_TEST_DIR/store.json"))
	require.Equal(t, "relative/x", expandPath("relative/x"))
}

func TestStoragePath(t *testing.T) {
	cfg := &Config{DataFile: "/d/store.json", DBPath: "/d/tasknest.db"}

	cfg.Backend = "file"
	require.Equal(t, "/d/store.json", cfg.StoragePath())
	cfg.Backend = "sqlite"
	require.Equal(t, "/d/tasknest.db", cfg.StoragePath())
	cfg.Backend = "memory"
	require.Equal(t, "", cfg.StoragePath())
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	require.NoError(t, err)
	require.Empty(t, md.Undecoded())

	want := &Config{}
	setDefaults(want)
	require.Equal(t, want, cfg)
}

func TestValue(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.LogCaller = true

	require.Equal(t, "file", cfg.Value("backend"))
	require.Equal(t, "true", cfg.Value("log_caller"))
	require.Equal(t, "false", cfg.Value("log_timestamps"))
	require.Equal(t, "", cfg.Value("missing"))
}

// resolve follows symlinks in the parent directories of p so temp dirs
// compare equal on macOS.
func resolve(t *testing.T, p string) string {
	t.Helper()
	for dir := p; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			rel, _ := filepath.Rel(dir, p)
			return filepath.Join(real, rel)
		}
	}
	return p
}

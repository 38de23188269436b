package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no pattern", func(c *Config) { c.Patterns = nil }, "no pattern"},
		{"fixed and pcre", func(c *Config) { c.Fixed, c.PCRE = true, true }, "-F"},
		{"negative before", func(c *Config) { c.ContextBefore = -1 }, "context before"},
		{"negative after", func(c *Config) { c.ContextAfter = -1 }, "context after"},
		{"negative max count", func(c *Config) { c.MaxCount = -1 }, "max count"},
		{"negative max depth", func(c *Config) { c.MaxDepth = -1 }, "max depth"},
		{"filename flags", func(c *Config) { c.WithFilename, c.NoFilename = true, true }, "-H"},
		{"null data and crlf", func(c *Config) { c.NullData, c.CRLF = true, true }, "--null-data"},
		{"passthru and invert", func(c *Config) { c.Passthru, c.Invert = true, true }, "--passthru"},
		{"count and files", func(c *Config) { c.CountOnly, c.FilesWithMatches = true, true }, "-c (count) and -l"},
		{"json and count matches", func(c *Config) { c.JSONOutput, c.CountMatches = true, true }, "--count-matches and --json"},
		{"quiet with count", func(c *Config) { c.Quiet, c.CountOnly = true, true }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Patterns: []string{"x"}}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestLoadConfigArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte("# defaults\n--smart-case\n\n  --glob=!*.min.js  \n"), 0o644))
	t.Setenv(ConfigPathEnv, path)

	args, err := LoadConfigArgs()
	require.NoError(t, err)
	assert.Equal(t, []string{"--smart-case", "--glob=!*.min.js"}, args)
}

func TestLoadConfigArgs_Missing(t *testing.T) {
	t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "missing"))

	args, err := LoadConfigArgs()
	require.NoError(t, err)
	assert.Nil(t, args)
}

func TestLoadConfigArgs_Directory(t *testing.T) {
	t.Setenv(ConfigPathEnv, t.TempDir())

	_, err := LoadConfigArgs()
	assert.Error(t, err)
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

// run executes cfg with stdout captured in a temporary file.
func run(t *testing.T, cfg Config, stdin string) runResult {
	t.Helper()
	out, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	defer out.Close()

	if cfg.Color == ColorAuto {
		cfg.Color = ColorNever
	}
	var stderr bytes.Buffer
	code := RunWith(context.Background(), cfg, Streams{
		Stdin:  strings.NewReader(stdin),
		Stdout: int(out.Fd()),
		Stderr: &stderr,
	})

	_, err = out.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(out)
	require.NoError(t, err)
	return runResult{code: code, stdout: string(data), stderr: stderr.String()}
}

func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestRun_Recursive(t *testing.T) {
	dir := tree(t, map[string]string{
		"a.txt":     "hello\nworld\n",
		"sub/b.txt": "nothing here\n",
	})

	got := run(t, Config{Patterns: []string{"hello"}, Recursive: true, LineNumbers: true, Paths: []string{dir}}, "")

	assert.Equal(t, ExitMatch, got.code, got.stderr)
	assert.Equal(t, dir+"/a.txt:1:hello\n", got.stdout)
}

func TestRun_NoMatch(t *testing.T) {
	dir := tree(t, map[string]string{"a.txt": "hello\n"})

	got := run(t, Config{Patterns: []string{"absent"}, Recursive: true, Paths: []string{dir}}, "")

	assert.Equal(t, ExitNoMatch, got.code)
	assert.Empty(t, got.stdout)
}

func TestRun_Stdin(t *testing.T) {
	got := run(t, Config{Patterns: []string{"b"}, CountOnly: true}, "a\nb\nab\n")

	assert.Equal(t, ExitMatch, got.code)
	assert.Equal(t, "2\n", got.stdout)
}

func TestRun_Quiet(t *testing.T) {
	dir := tree(t, map[string]string{"a.txt": "x\n", "b.txt": "x\n"})

	got := run(t, Config{Patterns: []string{"x"}, Quiet: true, Recursive: true, Paths: []string{dir}}, "")

	assert.Equal(t, ExitMatch, got.code)
	assert.Empty(t, got.stdout)
}

func TestRun_Errors(t *testing.T) {
	dir := tree(t, map[string]string{"a.txt": "x\n"})
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		name   string
		cfg    Config
		code   int
		stderr string
	}{
		{"invalid pattern", Config{Patterns: []string{"("}, Paths: []string{dir}}, ExitError, "invalid pattern"},
		{"invalid config", Config{Paths: []string{dir}}, ExitError, "no pattern"},
		{"missing path", Config{Patterns: []string{"x"}, Paths: []string{missing}}, ExitError, "missing"},
		{"directory without recursion", Config{Patterns: []string{"x"}, Paths: []string{dir}}, ExitError, "is a directory"},
		{"missing path with a match elsewhere", Config{Patterns: []string{"x"}, Recursive: true, Paths: []string{missing, dir}}, ExitMatch, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, tt.cfg, "")
			assert.Equal(t, tt.code, got.code)
			assert.Contains(t, got.stderr, tt.stderr)
		})
	}
}

func TestRun_BinaryFiles(t *testing.T) {
	dir := tree(t, map[string]string{"data.txt": "head\x00\nneedle\n"})
	file := filepath.Join(dir, "data.txt")

	walked := run(t, Config{Patterns: []string{"needle"}, Recursive: true, Paths: []string{dir}}, "")
	assert.Equal(t, ExitNoMatch, walked.code)

	explicit := run(t, Config{Patterns: []string{"needle"}, Paths: []string{file}}, "")
	assert.Equal(t, ExitMatch, explicit.code)
	assert.Equal(t, "needle\n", explicit.stdout)

	text := run(t, Config{Patterns: []string{"needle"}, Text: true, Recursive: true, Paths: []string{dir}}, "")
	assert.Equal(t, ExitMatch, text.code)
	assert.Equal(t, file+":needle\n", text.stdout)
}

func TestRun_JSON(t *testing.T) {
	got := run(t, Config{Patterns: []string{"b"}, JSONOutput: true}, "a\nb\n")
	require.Equal(t, ExitMatch, got.code, got.stderr)

	lines := strings.Split(strings.TrimSpace(got.stdout), "\n")
	require.Len(t, lines, 4)
	var types []string
	for _, line := range lines {
		var msg struct{ Type string }
		require.NoError(t, json.Unmarshal([]byte(line), &msg))
		types = append(types, msg.Type)
	}
	assert.Equal(t, []string{"begin", "match", "end", "summary"}, types)
}

func TestRun_Stats(t *testing.T) {
	got := run(t, Config{Patterns: []string{"b"}, Stats: true}, "a\nb\n")

	assert.Equal(t, ExitMatch, got.code)
	assert.True(t, strings.HasPrefix(got.stdout, "b\n\n1 matches\n1 matched lines\n"), got.stdout)
}

func TestRun_Context(t *testing.T) {
	got := run(t, Config{Patterns: []string{"m"}, ContextBefore: 1, ContextAfter: 1, LineNumbers: true}, "m\n1\n2\n3\nm\n")

	assert.Equal(t, "1:m\n2-1\n--\n4-3\n5:m\n", got.stdout)
}

func TestRun_Multiline(t *testing.T) {
	got := run(t, Config{Patterns: []string{`foo\nbar`}, Multiline: true, LineNumbers: true}, "foo\nbar\nbaz\n")

	assert.Equal(t, "1:foo\n2:bar\n", got.stdout)
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ConfigPathEnv names the environment variable that overrides the config
// file location.
const ConfigPathEnv = "GREPCORE_CONFIG_PATH"

// LoadConfigArgs reads the grepcore config file and returns its arguments,
// which are meant to be prepended to the command line.
// Config file location: GREPCORE_CONFIG_PATH env var, or ~/.grepcore.
// Format: one argument per line, # comments, empty lines ignored.
// A missing file yields no arguments and no error.
func LoadConfigArgs() ([]string, error) {
	path := os.Getenv(ConfigPathEnv)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(home, ".grepcore")
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	defer f.Close()

	args, err := parseConfigArgs(f)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return args, nil
}

func parseConfigArgs(r io.Reader) ([]string, error) {
	var args []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	return args, scanner.Err()
}

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridstack/internal/config"
)

// Workspace captures canonical locations for a gridstack working directory.
type Workspace struct {
	Root       string
	ConfigFile string
	LogsDir    string
	MetaDir    string
	ProbeCache string
}

// Resolve determines the workspace root using the optional --workdir flag or
// the current working directory when the flag is empty.
func Resolve(workdirFlag string) (Workspace, error) {
	var (
		root string
		err  error
	)

	if workdirFlag != "" {
		root, err = filepath.Abs(workdirFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	meta := filepath.Join(root, ".gridstack")
	return Workspace{
		Root:       root,
		ConfigFile: filepath.Join(root, "gridstack.yaml"),
		LogsDir:    filepath.Join(root, "logs"),
		MetaDir:    meta,
		ProbeCache: filepath.Join(meta, "probe-cache.json"),
	}, nil
}

// Resolve makes value absolute relative to the workspace root.
func (w Workspace) Resolve(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return w.Root
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(w.Root, value)
}

// OutputDir picks the composition output directory: the flag value, then the
// layout file's output, then the configured default.
func (w Workspace) OutputDir(cfg config.Config, candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return w.Resolve(c)
		}
	}
	return w.Resolve(cfg.Output.Dir)
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

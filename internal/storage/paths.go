// Package storage persists verified perft results.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// baseDataDir returns the per-user data root of the platform:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func baseDataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return homeJoin("Library", "Application Support")
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return homeJoin("AppData", "Roaming")
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		return homeJoin(".local", "share")
	}
}

func homeJoin(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

// ensureDir creates dir if needed and returns it.
func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the application's data directory, creating it.
func GetDataDir() (string, error) {
	base, err := baseDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(base, appName))
}

// GetDatabaseDir returns the directory of the badger store, creating it.
// CHESSRULES_DB overrides the default location under the data directory.
func GetDatabaseDir() (string, error) {
	if dir := os.Getenv("CHESSRULES_DB"); dir != "" {
		return ensureDir(dir)
	}

	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

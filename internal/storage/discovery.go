package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// LogFileName is the canonical event log file inside the project directory.
const LogFileName = "issues.jsonl"

// ProjectDirName is the tracker directory created by InitProject.
const ProjectDirName = ".quill"

// DiscoverLog looks for .quill/issues.jsonl in the current directory only.
// Returns the absolute path to the log, or an error if not found.
//
// Only the current directory is checked, not parents: a tracker nested
// inside another project must not silently pick up the outer project's log.
//
// The QUILL_LOG_PATH environment variable bypasses discovery entirely,
// which keeps tests isolated from the caller's working directory.
func DiscoverLog() (string, error) {
	if path := os.Getenv("QUILL_LOG_PATH"); path != "" {
		return path, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return discoverLogInDir(dir)
}

func discoverLogInDir(dir string) (string, error) {
	logPath := filepath.Join(dir, ProjectDirName, LogFileName)
	if info, err := os.Stat(logPath); err == nil && !info.IsDir() {
		absPath, err := filepath.Abs(logPath)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		return absPath, nil
	}

	return "", fmt.Errorf(
		"no %s/%s found in %s\n"+
			"  Run 'quill init' to initialize a tracker in this directory\n"+
			"  Or use --log to specify the event log explicitly",
		ProjectDirName, LogFileName, dir)
}

// ProjectRoot returns the project root directory for a given log path: the
// directory containing the .quill/ directory.
func ProjectRoot(logPath string) (string, error) {
	absPath, err := filepath.Abs(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	logDir := filepath.Dir(absPath)
	if filepath.Base(logDir) != ProjectDirName {
		return "", fmt.Errorf("event log must be in a %s/ directory, got: %s", ProjectDirName, logPath)
	}
	return filepath.Dir(logDir), nil
}

// InitProject creates the .quill directory with an empty event log.
// Returns the path to the created log. The config file is written
// separately by internal/config.
func InitProject(projectDir string) (string, error) {
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return "", fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	quillDir := filepath.Join(projectDir, ProjectDirName)
	if err := os.MkdirAll(quillDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", ProjectDirName, err)
	}

	logPath := filepath.Join(quillDir, LogFileName)
	if _, err := os.Stat(logPath); err == nil {
		return "", fmt.Errorf("event log already exists: %s", logPath)
	}
	if err := os.WriteFile(logPath, []byte(""), 0644); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", LogFileName, err)
	}
	return logPath, nil
}

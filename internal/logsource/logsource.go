// Package logsource reads raw log lines for analysis. The file-backed
// source bootstraps a sample log when the configured file is missing, so a
// fresh deployment has something to analyze.
package logsource

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
)

// Source provides raw log lines for an analysis run.
type Source interface {
	// Lines returns the raw log lines in input order.
	Lines() ([]string, error)
}

// SampleLines are the bootstrap log lines written when the configured log
// file does not exist yet.
var SampleLines = []string{
	"2024-09-10 10:15:23 INFO Application started successfully",
	"2024-09-10 10:16:45 INFO User login: user123",
	"2024-09-10 10:17:12 WARNING Memory usage at 85%",
	"2024-09-10 10:18:33 INFO Database connection established",
	"2024-09-10 10:19:44 ERROR Failed to connect to external API",
	"2024-09-10 10:20:15 INFO Processing batch job 001",
	"2024-09-10 10:21:22 CRITICAL Database connection timeout",
	"2024-09-10 10:22:11 INFO Batch job 001 completed",
}

// FileSource reads log lines from a file on disk.
type FileSource struct {
	path      string
	bootstrap bool
}

// NewFileSource creates a file-backed line source. When bootstrap is true
// and the file does not exist, the sample log is written first.
func NewFileSource(path string, bootstrap bool) *FileSource {
	return &FileSource{path: path, bootstrap: bootstrap}
}

// Path returns the backing file path.
func (fs *FileSource) Path() string {
	return fs.path
}

// Lines reads the file and returns its lines. Empty lines are skipped.
func (fs *FileSource) Lines() ([]string, error) {
	if fs.bootstrap {
		if err := fs.ensureSampleFile(); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return lines, nil
}

// ensureSampleFile writes the sample log if the file does not exist.
func (fs *FileSource) ensureSampleFile() error {
	if _, err := os.Stat(fs.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	logger := logging.SourceLogger()
	logger.Info("Log file missing, writing sample log",
		logging.Count("lines", int64(len(SampleLines))),
	)

	var sb strings.Builder
	for _, line := range SampleLines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(fs.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write sample log: %w", err)
	}
	return nil
}

// StaticSource serves a fixed slice of lines. Used in tests and for
// analyzing lines submitted directly.
type StaticSource struct {
	lines []string
}

// NewStaticSource creates a source over an in-memory line slice.
func NewStaticSource(lines []string) *StaticSource {
	return &StaticSource{lines: lines}
}

// Lines returns the configured lines.
func (ss *StaticSource) Lines() ([]string, error) {
	return ss.lines, nil
}

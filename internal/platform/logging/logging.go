package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

const filePrefix = "app-"

// New builds the service logger. Output goes to stderr (human readable)
// and, when dir is non-empty, to a dated file under dir so the admin log
// endpoint has something to read.
func New(dir string) (zerolog.Logger, error) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	writers := []io.Writer{console}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Logger{}, fmt.Errorf("create log directory: %w", err)
		}
		name := filepath.Join(dir, filePrefix+time.Now().Format("20060102")+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()
	return logger, nil
}

// TailLatest returns up to limit lines from the newest app-*.log file in
// dir, newest line first.
func TailLatest(dir string, limit int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.log"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	// Dated file names sort chronologically.
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	content, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	var lines []string
	start := 0
	for i := 0; i <= len(content); i++ {
		if i == len(content) || content[i] == '\n' {
			if i > start {
				lines = append(lines, string(content[start:i]))
			}
			start = i + 1
		}
	}

	// Newest last in the file, newest first in the response.
	out := make([]string, 0, limit)
	for i := len(lines) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, lines[i])
	}
	return out, nil
}

package ledger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMaxEntries bounds the ledger file. Feeds rotate far faster than
// this, so forgetting the oldest URLs does not cause re-emission in practice.
const DefaultMaxEntries = 500

// FileLedger is an append-only text file with one URL per line, mirrored by
// an in-memory set.
type FileLedger struct {
	path       string
	maxEntries int

	mu   sync.Mutex
	seen map[string]struct{}
}

// Open loads the ledger at path. A missing or unreadable file is not fatal:
// the ledger starts empty and the problem is logged.
func Open(path string, maxEntries int) *FileLedger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	l := &FileLedger{
		path:       path,
		maxEntries: maxEntries,
		seen:       make(map[string]struct{}),
	}

	lines, err := l.readLines()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Ledger file not found, starting empty", "file", path)
	case err != nil:
		slog.Warn("Failed to load ledger, starting empty", "file", path, "error", err)
	default:
		for _, line := range lines {
			l.seen[line] = struct{}{}
		}
		slog.Info("Ledger loaded", "file", path, "urls", len(l.seen))
	}

	return l
}

func (l *FileLedger) Path() string {
	return l.path
}

func (l *FileLedger) Contains(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.seen[url]
	return ok
}

func (l *FileLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.seen)
}

// Record marks url as emitted and appends it to the file. The URL stays in
// the in-memory set even when the append fails.
func (l *FileLedger) Record(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seen[url] = struct{}{}

	if strings.ContainsAny(url, "\r\n") {
		return fmt.Errorf("refusing to persist URL containing a line break")
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	if _, err := f.WriteString(url + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to ledger: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}

	return nil
}

// Trim rewrites the file with only its most recent maxEntries lines and
// rebuilds the in-memory set from them. It is a no-op under the limit.
func (l *FileLedger) Trim() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.readLines()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	if len(lines) <= l.maxEntries {
		return nil
	}

	kept := lines[len(lines)-l.maxEntries:]
	if err := l.rewrite(kept); err != nil {
		return err
	}

	l.seen = make(map[string]struct{}, len(kept))
	for _, line := range kept {
		l.seen[line] = struct{}{}
	}

	slog.Info("Ledger trimmed", "file", l.path, "removed", len(lines)-len(kept), "urls", len(l.seen))

	return nil
}

// Entries returns the URLs currently stored in the file, oldest first.
func (l *FileLedger) Entries() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := l.readLines()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return lines, err
}

func (l *FileLedger) readLines() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// rewrite replaces the file atomically via a temp file in the same directory.
func (l *FileLedger) rewrite(lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	return nil
}

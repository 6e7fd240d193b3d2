// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package seenfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// Store keeps numbers reported by earlier runs in a text file, one per line
type Store struct {
	mu   sync.Mutex
	path string
}

// Load reads the file. A missing file yields an empty set; lines that do
// not look like phone numbers are skipped.
func (s *Store) Load(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (map[string]struct{}, error) {
	out := make(map[string]struct{})

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to open seen file: %w", err)
	}
	defer f.Close()

	skipped := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !model.IsPhoneNumber(line) {
			skipped++
			continue
		}
		out[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("failed to read seen file: %w", err)
	}

	if skipped > 0 {
		slog.WarnContext(ctx, "skipped corrupt lines in seen file",
			"path", s.path,
			"skipped", skipped,
		)
	}

	return out, nil
}

// Save merges numbers into the file and rewrites it atomically
func (s *Store) Save(ctx context.Context, numbers []string) error {
	if len(numbers) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "rewriting unreadable seen file", "error", err)
	}
	for _, n := range numbers {
		existing[n] = struct{}{}
	}

	sorted := make([]string, 0, len(existing))
	for n := range existing {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create seen file directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".seen-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary seen file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, n := range sorted {
		if _, err := w.WriteString(n + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write seen file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write seen file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close seen file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace seen file: %w", err)
	}

	slog.DebugContext(ctx, "seen file updated",
		"path", s.path,
		"added", len(numbers),
		"total", len(sorted),
	)
	return nil
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

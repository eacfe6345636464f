package promptpool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Repository stores the custom prompts added at runtime
type Repository interface {
	ListCustom(ctx context.Context) ([]string, error)
	InsertCustom(ctx context.Context, prompt string) error
}

// FileRepository keeps custom prompts in a JSON array on disk
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates the file (and its directory) when missing
func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create prompt directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to create prompt file: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

// ListCustom returns the stored prompts. An unreadable or malformed file
// yields an empty list.
func (r *FileRepository) ListCustom(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(), nil
}

// InsertCustom appends prompt and rewrites the file
func (r *FileRepository) InsertCustom(ctx context.Context, prompt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts := append(r.read(), prompt)
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prompts: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prompts: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace prompt file: %w", err)
	}
	return nil
}

func (r *FileRepository) read() []string {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return []string{}
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{}
	}

	prompts := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			prompts = append(prompts, s)
		}
	}
	return prompts
}

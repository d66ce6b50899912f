package repos

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"poolhall/internal/domain"
)

// FileStore keeps the aggregate in a JSON file. Writes go to a temp file
// that is renamed over the target, so a crash never leaves it truncated.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (f *FileStore) Load(ctx context.Context) (domain.AggregateState, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		initial := domain.EmptyState(time.Now())
		if err := f.Save(ctx, initial); err != nil {
			return domain.AggregateState{}, err
		}
		return initial, nil
	}
	if err != nil {
		return domain.AggregateState{}, err
	}
	return decodeState(b)
}

func (f *FileStore) Save(ctx context.Context, st domain.AggregateState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeState(st)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("mkdir state dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write temp state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

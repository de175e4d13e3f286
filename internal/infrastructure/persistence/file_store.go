package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// FileStore keeps one file per save in a directory
type FileStore struct {
	dir   string
	codec Codec
}

// NewFileStore creates dir if needed
func NewFileStore(dir string, codec Codec) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save dir: %w", err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+s.codec.Ext())
}

// Save writes ss under a fresh id
func (s *FileStore) Save(ctx context.Context, ss *entity.SaveState) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	data, err := s.codec.Marshal(ss)
	if err != nil {
		return Meta{}, fmt.Errorf("failed to encode save: %w", err)
	}
	id := uuid.NewString()
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return Meta{}, fmt.Errorf("failed to write save: %w", err)
	}
	return newMeta(id, ss, time.Now()), nil
}

// Load reads the save with the given id
func (s *FileStore) Load(ctx context.Context, id string) (*entity.SaveState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	var ss entity.SaveState
	if err := s.codec.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("failed to decode save %s: %w", id, err)
	}
	return &ss, nil
}

// List decodes every save in the directory, newest first
func (s *FileStore) List(ctx context.Context) ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read save dir: %w", err)
	}

	var metas []Meta
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, s.codec.Ext()) {
			continue
		}
		id := strings.TrimSuffix(name, s.codec.Ext())
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		ss, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		metas = append(metas, newMeta(id, ss, info.ModTime()))
	}

	slices.SortStableFunc(metas, func(a, b Meta) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return metas, nil
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }

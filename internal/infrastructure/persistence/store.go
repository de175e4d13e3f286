package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/younwookim/tankarena/internal/domain/entity"
)

// ErrNotFound is returned when no save matches the requested id
var ErrNotFound = errors.New("save not found")

// Meta describes a stored save without decoding it
type Meta struct {
	ID      string
	Level   string
	Tick    uint64
	Score   int
	SavedAt time.Time
}

// Store defines the interface for snapshot persistence
type Store interface {
	Save(ctx context.Context, ss *entity.SaveState) (Meta, error)
	Load(ctx context.Context, id string) (*entity.SaveState, error)
	// List returns every save, newest first
	List(ctx context.Context) ([]Meta, error)
	Close() error
}

// Latest loads the newest save in s
func Latest(ctx context.Context, s Store) (*entity.SaveState, Meta, error) {
	metas, err := s.List(ctx)
	if err != nil {
		return nil, Meta{}, err
	}
	if len(metas) == 0 {
		return nil, Meta{}, ErrNotFound
	}
	ss, err := s.Load(ctx, metas[0].ID)
	if err != nil {
		return nil, Meta{}, err
	}
	return ss, metas[0], nil
}

func newMeta(id string, ss *entity.SaveState, at time.Time) Meta {
	return Meta{
		ID:      id,
		Level:   ss.Level.ID,
		Tick:    ss.Tick,
		Score:   ss.Score,
		SavedAt: at,
	}
}

// Open picks a store from a location:
//
//	sqlite:<path>           SQLite database file
//	postgres://...          PostgreSQL connection URL
//	<dir>                   one file per save
func Open(ctx context.Context, location string, codec Codec) (Store, error) {
	switch {
	case strings.HasPrefix(location, "sqlite:"):
		return OpenSQLStore(ctx, "sqlite", strings.TrimPrefix(location, "sqlite:"), codec)
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return OpenSQLStore(ctx, "postgres", location, codec)
	default:
		return NewFileStore(location, codec)
	}
}

package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"poolhall/internal/domain"
)

// StateRepo keeps the aggregate as a JSON document in kv_state.
type StateRepo struct {
	db  *sqlx.DB
	key string
}

func NewStateRepo(db *sqlx.DB, key string) *StateRepo {
	if key == "" {
		key = StateKey
	}
	return &StateRepo{db: db, key: key}
}

// Load returns the stored aggregate, or the empty default shape if nothing
// was saved yet.
func (r *StateRepo) Load(ctx context.Context) (domain.AggregateState, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw, `SELECT value FROM kv_state WHERE key = ?`, r.key)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmptyState(time.Now()), nil
	}
	if err != nil {
		return domain.AggregateState{}, err
	}
	return decodeState([]byte(raw))
}

// Save replaces the document in a single statement, so readers see either
// the old or the new value.
func (r *StateRepo) Save(ctx context.Context, st domain.AggregateState) error {
	b, err := encodeState(st)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO kv_state(key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, r.key, string(b), st.UpdatedAt)
	return err
}

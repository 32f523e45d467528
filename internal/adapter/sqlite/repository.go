// Package sqlite persists user beaches in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS beaches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	position TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_beaches_user ON beaches(user_id);`

// BeachRepository stores beaches in SQLite.
type BeachRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*BeachRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &BeachRepository{db: db}, nil
}

// Create validates and stores a beach, returning it with its new ID.
func (r *BeachRepository) Create(ctx context.Context, beach domain.Beach) (domain.Beach, error) {
	if err := beach.Validate(); err != nil {
		return domain.Beach{}, err
	}
	if beach.UserID == "" {
		return domain.Beach{}, &domain.ValidationError{Field: "user", Reason: "is required"}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO beaches (user_id, name, lat, lng, position) VALUES (?, ?, ?, ?, ?)`,
		beach.UserID, beach.Name, beach.Lat, beach.Lng, string(beach.Position),
	)
	if err != nil {
		return domain.Beach{}, fmt.Errorf("saving beach: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Beach{}, fmt.Errorf("getting last insert id: %w", err)
	}
	beach.ID = id
	return beach, nil
}

// ListByUser returns a user's beaches in creation order.
func (r *BeachRepository) ListByUser(ctx context.Context, userID string) ([]domain.Beach, error) {
	return r.query(ctx,
		`SELECT id, user_id, name, lat, lng, position FROM beaches WHERE user_id = ? ORDER BY id`, userID)
}

// ListAll returns every beach in creation order.
func (r *BeachRepository) ListAll(ctx context.Context) ([]domain.Beach, error) {
	return r.query(ctx, `SELECT id, user_id, name, lat, lng, position FROM beaches ORDER BY id`)
}

func (r *BeachRepository) query(ctx context.Context, q string, args ...any) ([]domain.Beach, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying beaches: %w", err)
	}
	defer rows.Close()

	beaches := []domain.Beach{}
	for rows.Next() {
		var b domain.Beach
		var position string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Lat, &b.Lng, &position); err != nil {
			return nil, fmt.Errorf("scanning beach: %w", err)
		}
		b.Position = domain.GeoPosition(position)
		beaches = append(beaches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating beaches: %w", err)
	}
	return beaches, nil
}

// CheckReadiness pings the database.
func (r *BeachRepository) CheckReadiness(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return nil
}

func (r *BeachRepository) Close() error {
	return r.db.Close()
}

package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/nba-rank/internal/player"
)

//go:embed schema.sql
var schema string

// SQLiteStore keeps the table in the players table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for a
// throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// a :memory: database exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces every stored row with the rows of t in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, t *player.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "delete from players"); err != nil {
		return fmt.Errorf("clearing players: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `insert into players
		(position, id, name, team, salary, minutes, points, rebounds, assists, metric)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	if t != nil {
		for i, r := range t.Records {
			_, err := stmt.ExecContext(ctx, i, r.ID, r.Name, r.Team,
				nullInt(r.Salary), nullFloat(r.Minutes), nullFloat(r.Points),
				nullFloat(r.Rebounds), nullFloat(r.Assists), nullFloat(r.Metric))
			if err != nil {
				return fmt.Errorf("inserting player %s: %w", r.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing players: %w", err)
	}
	return nil
}

// Load returns the stored rows in saved order, or ErrNoData if there are none.
func (s *SQLiteStore) Load(ctx context.Context) (*player.Table, error) {
	rows, err := s.db.QueryContext(ctx, `select
		id, name, team, salary, minutes, points, rebounds, assists, metric
		from players order by position`)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	t := &player.Table{}
	for rows.Next() {
		var (
			r      player.Record
			salary sql.NullInt64
			stats  [5]sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Team, &salary,
			&stats[0], &stats[1], &stats[2], &stats[3], &stats[4]); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		if salary.Valid {
			r.Salary = player.Int(salary.Int64)
		}
		r.Minutes = floatPtr(stats[0])
		r.Points = floatPtr(stats[1])
		r.Rebounds = floatPtr(stats[2])
		r.Assists = floatPtr(stats[3])
		r.Metric = floatPtr(stats[4])
		t.Records = append(t.Records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading players: %w", err)
	}

	if t.Len() == 0 {
		return nil, ErrNoData
	}
	return t, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return player.Float(v.Float64)
}

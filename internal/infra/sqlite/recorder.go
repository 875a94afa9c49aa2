package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"flashquiz/internal/domain"
	"flashquiz/internal/infra/sqlite/migrations"
)

// attemptRow is the bun mapping for one persisted attempt.
type attemptRow struct {
	bun.BaseModel `bun:"table:attempts"`

	ID              int64     `bun:"id,pk,autoincrement"`
	AttemptID       string    `bun:"attempt_id,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	Category        string    `bun:"category,notnull"`
	Difficulty      string    `bun:"difficulty,notnull"`
	Score           int       `bun:"score,notnull"`
	TotalQuestions  int       `bun:"total_questions,notnull"`
	DurationSeconds int       `bun:"duration_seconds,notnull"`
}

// Recorder persists attempt summaries in a local SQLite file. It only ever
// appends rows and reads them back newest first.
type Recorder struct {
	db *bun.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Recorder, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorage, path, err)
	}
	// SQLite allows one writer; a single connection avoids lock contention.
	sqldb.SetMaxOpenConns(1)
	return &Recorder{db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// Migrate applies the attempts schema migrations.
func (r *Recorder) Migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(r.db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("%w: init migrations: %v", domain.ErrStorage, err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: apply migrations: %v", domain.ErrStorage, err)
	}
	return nil
}

// Record appends one attempt row.
func (r *Recorder) Record(ctx context.Context, summary domain.AttemptSummary) error {
	row := &attemptRow{
		AttemptID:       summary.ID,
		CreatedAt:       summary.Timestamp,
		Category:        summary.Category,
		Difficulty:      summary.Difficulty,
		Score:           summary.Score,
		TotalQuestions:  summary.TotalQuestions,
		DurationSeconds: summary.DurationSeconds,
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert attempt: %v", domain.ErrStorage, err)
	}
	return nil
}

// History returns up to limit attempts, newest first.
func (r *Recorder) History(ctx context.Context, limit int) ([]domain.AttemptSummary, error) {
	var rows []attemptRow
	err := r.db.NewSelect().
		Model(&rows).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list attempts: %v", domain.ErrStorage, err)
	}

	summaries := make([]domain.AttemptSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, domain.AttemptSummary{
			ID:              row.AttemptID,
			Timestamp:       row.CreatedAt,
			Category:        row.Category,
			Difficulty:      row.Difficulty,
			Score:           row.Score,
			TotalQuestions:  row.TotalQuestions,
			DurationSeconds: row.DurationSeconds,
		})
	}
	return summaries, nil
}

// Close releases the underlying database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}

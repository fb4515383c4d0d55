package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/agentlift/agentlift/internal/domain"
)

// AnalysisRunRepository persists analysis runs in PostgreSQL
type AnalysisRunRepository struct {
	db *sqlx.DB
}

// NewAnalysisRunRepository creates a new analysis run repository
func NewAnalysisRunRepository(db *sqlx.DB) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db}
}

// analysisRunRow represents the database row structure
type analysisRunRow struct {
	ID          uuid.UUID      `db:"id"`
	Name        string         `db:"name"`
	BotName     string         `db:"bot_name"`
	Platform    string         `db:"platform"`
	Domain      string         `db:"domain"`
	Status      string         `db:"status"`
	SourceFile  string         `db:"source_file"`
	ArchiveURI  *string        `db:"archive_uri"`
	Result      []byte         `db:"result"`
	Warnings    pq.StringArray `db:"warnings"`
	FailReason  *string        `db:"fail_reason"`
	CompletedAt *time.Time     `db:"completed_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

func (r *analysisRunRow) toDomain() (*domain.AnalysisRun, error) {
	run := &domain.AnalysisRun{
		ID:          r.ID,
		Name:        r.Name,
		BotName:     r.BotName,
		Platform:    domain.Platform(r.Platform),
		Domain:      domain.BotDomain(r.Domain),
		Status:      domain.RunStatus(r.Status),
		SourceFile:  r.SourceFile,
		Warnings:    r.Warnings,
		CompletedAt: r.CompletedAt,
		Timestamps: domain.Timestamps{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			DeletedAt: r.DeletedAt,
		},
	}

	if r.ArchiveURI != nil {
		run.ArchiveURI = *r.ArchiveURI
	}
	if r.FailReason != nil {
		run.FailReason = *r.FailReason
	}

	if r.Result != nil {
		var result domain.DeltaAnalysisResult
		if err := json.Unmarshal(r.Result, &result); err != nil {
			return nil, err
		}
		run.Result = &result
	}

	return run, nil
}

// Create inserts a new analysis run
func (r *AnalysisRunRepository) Create(ctx context.Context, run *domain.AnalysisRun) error {
	// JSONB field - use interface{} to properly pass NULL
	var result interface{}
	if run.Result != nil {
		data, err := json.Marshal(run.Result)
		if err != nil {
			return err
		}
		result = data
	}

	var archiveURI *string
	if run.ArchiveURI != "" {
		archiveURI = &run.ArchiveURI
	}
	var failReason *string
	if run.FailReason != "" {
		failReason = &run.FailReason
	}

	query := `
		INSERT INTO analysis_runs (
			id, name, bot_name, platform, domain, status, source_file,
			archive_uri, result, warnings, fail_reason,
			completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Name,
		run.BotName,
		string(run.Platform),
		string(run.Domain),
		string(run.Status),
		run.SourceFile,
		archiveURI,
		result,
		pq.StringArray(run.Warnings),
		failReason,
		run.CompletedAt,
		run.CreatedAt,
		run.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ConflictError("analysis run already exists")
		}
		return err
	}

	return nil
}

// GetByID retrieves an analysis run by ID
func (r *AnalysisRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	query := `
		SELECT id, name, bot_name, platform, domain, status, source_file,
		       archive_uri, result, warnings, fail_reason,
		       completed_at, created_at, updated_at, deleted_at
		FROM analysis_runs
		WHERE id = $1 AND deleted_at IS NULL
	`

	var row analysisRunRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("analysis_run", id)
		}
		return nil, err
	}

	return row.toDomain()
}

// List retrieves paginated analysis runs, newest first
func (r *AnalysisRunRepository) List(ctx context.Context, limit, offset int) ([]*domain.AnalysisRun, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM analysis_runs WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, bot_name, platform, domain, status, source_file,
		       archive_uri, result, warnings, fail_reason,
		       completed_at, created_at, updated_at, deleted_at
		FROM analysis_runs
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var rows []analysisRunRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, 0, err
	}

	runs := make([]*domain.AnalysisRun, len(rows))
	for i, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		runs[i] = run
	}

	return runs, total, nil
}

// ListByDomain retrieves paginated analysis runs for one business domain
func (r *AnalysisRunRepository) ListByDomain(ctx context.Context, d domain.BotDomain, limit, offset int) ([]*domain.AnalysisRun, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM analysis_runs WHERE domain = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery, string(d)); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, bot_name, platform, domain, status, source_file,
		       archive_uri, result, warnings, fail_reason,
		       completed_at, created_at, updated_at, deleted_at
		FROM analysis_runs
		WHERE domain = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var rows []analysisRunRow
	if err := r.db.SelectContext(ctx, &rows, query, string(d), limit, offset); err != nil {
		return nil, 0, err
	}

	runs := make([]*domain.AnalysisRun, len(rows))
	for i, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		runs[i] = run
	}

	return runs, total, nil
}

// Update updates an existing analysis run. Terminal runs are immutable.
func (r *AnalysisRunRepository) Update(ctx context.Context, run *domain.AnalysisRun) error {
	var result interface{}
	if run.Result != nil {
		data, err := json.Marshal(run.Result)
		if err != nil {
			return err
		}
		result = data
	}

	var archiveURI *string
	if run.ArchiveURI != "" {
		archiveURI = &run.ArchiveURI
	}
	var failReason *string
	if run.FailReason != "" {
		failReason = &run.FailReason
	}

	query := `
		UPDATE analysis_runs
		SET bot_name = $2, platform = $3, domain = $4, status = $5,
		    archive_uri = $6, result = $7, warnings = $8, fail_reason = $9,
		    completed_at = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
		  AND status NOT IN ('completed', 'failed')
	`

	res, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.BotName,
		string(run.Platform),
		string(run.Domain),
		string(run.Status),
		archiveURI,
		result,
		pq.StringArray(run.Warnings),
		failReason,
		run.CompletedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return r.updateMissReason(ctx, run.ID)
	}

	return nil
}

// updateMissReason distinguishes "run does not exist" from "run is terminal"
// when an update matched no rows
func (r *AnalysisRunRepository) updateMissReason(ctx context.Context, id uuid.UUID) error {
	var status string
	query := `SELECT status FROM analysis_runs WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &status, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError("analysis_run", id)
		}
		return err
	}
	return domain.InvalidStateError("analysis_run", status)
}

// Delete soft deletes an analysis run
func (r *AnalysisRunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE analysis_runs
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundError("analysis_run", id)
	}

	return nil
}

// CountByStatus counts non-deleted runs grouped by status
func (r *AnalysisRunRepository) CountByStatus(ctx context.Context) (map[domain.RunStatus]int, error) {
	query := `
		SELECT status, COUNT(*) AS n
		FROM analysis_runs
		WHERE deleted_at IS NULL
		GROUP BY status
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.RunStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.RunStatus(status)] = n
	}
	return counts, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const blockColumns = `id, task_type, task_id, task_name, start_time, end_time,
		status, actual_min, notes, created_at, updated_at`

// SQLiteBlockRepo implements BlockRepo using a SQLite database.
type SQLiteBlockRepo struct {
	db db.DBTX
}

// NewSQLiteBlockRepo creates a new SQLiteBlockRepo.
func NewSQLiteBlockRepo(conn db.DBTX) *SQLiteBlockRepo {
	return &SQLiteBlockRepo{db: conn}
}

func (r *SQLiteBlockRepo) Create(ctx context.Context, b *domain.TimeBlock) error {
	query := `INSERT INTO time_blocks (` + blockColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		string(b.TaskType),
		b.TaskID,
		b.TaskName,
		b.StartTime.Format(time.RFC3339),
		b.EndTime.Format(time.RFC3339),
		string(b.Status),
		nullableIntToValue(b.ActualMin),
		b.Notes,
		b.CreatedAt.Format(time.RFC3339),
		b.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting time block: %w", err)
	}
	return nil
}

func (r *SQLiteBlockRepo) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanBlock(row)
}

func (r *SQLiteBlockRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, query,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing time blocks: %w", err)
	}
	defer rows.Close()
	return scanBlocks(rows)
}

func (r *SQLiteBlockRepo) ListInRangeByStatus(ctx context.Context, start, end time.Time, status domain.BlockStatus) ([]*domain.TimeBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM time_blocks
		WHERE start_time >= ? AND start_time < ? AND status = ?
		ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, query,
		start.Format(time.RFC3339), end.Format(time.RFC3339), string(status))
	if err != nil {
		return nil, fmt.Errorf("listing time blocks by status: %w", err)
	}
	defer rows.Close()
	return scanBlocks(rows)
}

func (r *SQLiteBlockRepo) ReplaceScheduledInRange(ctx context.Context, start, end time.Time, blocks []*domain.TimeBlock) error {
	// Only 'scheduled' blocks are regeneration-owned. Completed and
	// skipped blocks in the range are history and must survive.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM time_blocks
		 WHERE status = 'scheduled' AND start_time >= ? AND start_time < ?`,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("clearing scheduled blocks: %w", err)
	}
	for _, b := range blocks {
		if err := r.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteBlockRepo) DeleteScheduledInRange(ctx context.Context, start, end time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM time_blocks
		 WHERE status = 'scheduled' AND start_time >= ? AND start_time < ?`,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("deleting scheduled blocks: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SQLiteBlockRepo) Update(ctx context.Context, b *domain.TimeBlock) error {
	query := `UPDATE time_blocks SET task_type = ?, task_id = ?, task_name = ?,
		start_time = ?, end_time = ?, status = ?, actual_min = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(b.TaskType),
		b.TaskID,
		b.TaskName,
		b.StartTime.Format(time.RFC3339),
		b.EndTime.Format(time.RFC3339),
		string(b.Status),
		nullableIntToValue(b.ActualMin),
		b.Notes,
		b.UpdatedAt.Format(time.RFC3339),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time block: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanBlock(row rowScanner) (*domain.TimeBlock, error) {
	var b domain.TimeBlock
	var taskTypeStr, statusStr string
	var startStr, endStr string
	var actualMin sql.NullInt64
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&b.ID, &taskTypeStr, &b.TaskID, &b.TaskName, &startStr, &endStr,
		&statusStr, &actualMin, &b.Notes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	b.TaskType = domain.SourceType(taskTypeStr)
	b.Status = domain.BlockStatus(statusStr)
	b.StartTime, _ = time.Parse(time.RFC3339, startStr)
	b.EndTime, _ = time.Parse(time.RFC3339, endStr)
	if actualMin.Valid {
		v := int(actualMin.Int64)
		b.ActualMin = &v
	}
	b.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	b.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &b, nil
}

func scanBlocks(rows *sql.Rows) ([]*domain.TimeBlock, error) {
	var blocks []*domain.TimeBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning time block: %w", err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

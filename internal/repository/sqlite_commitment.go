package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const commitmentColumns = `id, external_id, title, start_time, end_time,
		category, calendar_id, last_synced`

// SQLiteCommitmentRepo implements CommitmentRepo using a SQLite database.
type SQLiteCommitmentRepo struct {
	db db.DBTX
}

// NewSQLiteCommitmentRepo creates a new SQLiteCommitmentRepo.
func NewSQLiteCommitmentRepo(conn db.DBTX) *SQLiteCommitmentRepo {
	return &SQLiteCommitmentRepo{db: conn}
}

func (r *SQLiteCommitmentRepo) Upsert(ctx context.Context, c *domain.ExternalCommitment) error {
	query := `INSERT INTO external_commitments (` + commitmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) WHERE external_id != '' DO UPDATE SET
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			category = excluded.category,
			calendar_id = excluded.calendar_id,
			last_synced = excluded.last_synced`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.ExternalID,
		c.Title,
		c.StartTime.Format(time.RFC3339),
		c.EndTime.Format(time.RFC3339),
		c.Category,
		c.CalendarID,
		c.LastSynced.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting commitment: %w", err)
	}
	return nil
}

func (r *SQLiteCommitmentRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*domain.ExternalCommitment, error) {
	// Any commitment overlapping the range blocks availability, not
	// just ones fully contained in it.
	query := `SELECT ` + commitmentColumns + ` FROM external_commitments
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, query, end.Format(time.RFC3339), start.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	defer rows.Close()

	var commitments []*domain.ExternalCommitment
	for rows.Next() {
		var c domain.ExternalCommitment
		var startStr, endStr, syncedStr string
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Title, &startStr, &endStr,
			&c.Category, &c.CalendarID, &syncedStr); err != nil {
			return nil, fmt.Errorf("scanning commitment: %w", err)
		}
		c.StartTime, _ = time.Parse(time.RFC3339, startStr)
		c.EndTime, _ = time.Parse(time.RFC3339, endStr)
		c.LastSynced, _ = time.Parse(time.RFC3339, syncedStr)
		commitments = append(commitments, &c)
	}
	return commitments, rows.Err()
}

func (r *SQLiteCommitmentRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM external_commitments WHERE external_id = ?`, externalID)
	if err != nil {
		return fmt.Errorf("deleting commitment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

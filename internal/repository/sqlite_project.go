package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, name, description, total_hours_allocated, hours_used,
		weekly_hour_cap, daily_hour_cap, priority, preferred_time,
		start_date, end_date, is_active, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.TotalHoursAllocated,
		p.HoursUsed,
		nullableFloatToValue(p.WeeklyHourCap),
		nullableFloatToValue(p.DailyHourCap),
		string(p.Priority),
		string(p.PreferredTime),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		boolToInt(p.IsActive),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *SQLiteProjectRepo) ListSchedulable(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE is_active = 1 AND hours_used < total_hours_allocated
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedulable projects: %w", err)
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, total_hours_allocated = ?,
		hours_used = ?, weekly_hour_cap = ?, daily_hour_cap = ?, priority = ?,
		preferred_time = ?, start_date = ?, end_date = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.TotalHoursAllocated,
		p.HoursUsed,
		nullableFloatToValue(p.WeeklyHourCap),
		nullableFloatToValue(p.DailyHourCap),
		string(p.Priority),
		string(p.PreferredTime),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		boolToInt(p.IsActive),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var priorityStr, preferredStr string
	var weeklyCap, dailyCap sql.NullFloat64
	var startDateStr, endDateStr sql.NullString
	var activeInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.TotalHoursAllocated, &p.HoursUsed,
		&weeklyCap, &dailyCap, &priorityStr, &preferredStr,
		&startDateStr, &endDateStr, &activeInt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if weeklyCap.Valid {
		p.WeeklyHourCap = &weeklyCap.Float64
	}
	if dailyCap.Valid {
		p.DailyHourCap = &dailyCap.Float64
	}
	p.Priority = domain.Priority(priorityStr)
	p.PreferredTime = domain.TimeOfDay(preferredStr)
	p.StartDate = parseNullableTime(startDateStr, dateLayout)
	p.EndDate = parseNullableTime(endDateStr, dateLayout)
	p.IsActive = intToBool(activeInt)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &p, nil
}

func scanProjects(rows *sql.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

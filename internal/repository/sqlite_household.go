package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const householdColumns = `id, name, description, estimated_duration_min,
		recurrence, recurrence_expr, last_completed, priority, preferred_time,
		preferred_days, is_active, created_at, updated_at`

// SQLiteHouseholdTaskRepo implements HouseholdTaskRepo using a SQLite database.
type SQLiteHouseholdTaskRepo struct {
	db db.DBTX
}

// NewSQLiteHouseholdTaskRepo creates a new SQLiteHouseholdTaskRepo.
func NewSQLiteHouseholdTaskRepo(conn db.DBTX) *SQLiteHouseholdTaskRepo {
	return &SQLiteHouseholdTaskRepo{db: conn}
}

func (r *SQLiteHouseholdTaskRepo) Create(ctx context.Context, t *domain.HouseholdTask) error {
	query := `INSERT INTO household_tasks (` + householdColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Description,
		t.EstimatedDurationMin,
		string(t.Recurrence),
		t.RecurrenceExpr,
		nullableTimeToString(t.LastCompleted, dateLayout),
		string(t.Priority),
		string(t.PreferredTime),
		intsToCSV(weekdaysToInts(t.PreferredDays)),
		boolToInt(t.IsActive),
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting household task: %w", err)
	}
	return nil
}

func (r *SQLiteHouseholdTaskRepo) GetByID(ctx context.Context, id string) (*domain.HouseholdTask, error) {
	query := `SELECT ` + householdColumns + ` FROM household_tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanHouseholdTask(row)
}

func (r *SQLiteHouseholdTaskRepo) List(ctx context.Context, activeOnly bool) ([]*domain.HouseholdTask, error) {
	query := `SELECT ` + householdColumns + ` FROM household_tasks`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing household tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.HouseholdTask
	for rows.Next() {
		t, err := scanHouseholdTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning household task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteHouseholdTaskRepo) Update(ctx context.Context, t *domain.HouseholdTask) error {
	query := `UPDATE household_tasks SET name = ?, description = ?,
		estimated_duration_min = ?, recurrence = ?, recurrence_expr = ?,
		last_completed = ?, priority = ?, preferred_time = ?, preferred_days = ?,
		is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Description,
		t.EstimatedDurationMin,
		string(t.Recurrence),
		t.RecurrenceExpr,
		nullableTimeToString(t.LastCompleted, dateLayout),
		string(t.Priority),
		string(t.PreferredTime),
		intsToCSV(weekdaysToInts(t.PreferredDays)),
		boolToInt(t.IsActive),
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating household task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteHouseholdTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM household_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting household task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanHouseholdTask(row rowScanner) (*domain.HouseholdTask, error) {
	var t domain.HouseholdTask
	var recurrenceStr, priorityStr, preferredStr, daysCSV string
	var lastCompletedStr sql.NullString
	var activeInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.EstimatedDurationMin,
		&recurrenceStr, &t.RecurrenceExpr, &lastCompletedStr,
		&priorityStr, &preferredStr, &daysCSV, &activeInt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	t.Recurrence = domain.Recurrence(recurrenceStr)
	t.LastCompleted = parseNullableTime(lastCompletedStr, dateLayout)
	t.Priority = domain.Priority(priorityStr)
	t.PreferredTime = domain.TimeOfDay(preferredStr)
	t.PreferredDays = intsToWeekdays(csvToInts(daysCSV))
	t.IsActive = intToBool(activeInt)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &t, nil
}

// Weekdays are stored Monday-based (0=Monday..6=Sunday) to match the
// work schedule table.
func weekdaysToInts(days []time.Weekday) []int {
	var vals []int
	for _, d := range days {
		vals = append(vals, (int(d)+6)%7)
	}
	return vals
}

func intsToWeekdays(vals []int) []time.Weekday {
	var days []time.Weekday
	for _, v := range vals {
		days = append(days, time.Weekday((v+1)%7))
	}
	return days
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const assignmentColumns = `id, course_id, name, description, due_date,
		estimated_hours, hours_logged, priority, preferred_time,
		is_completed, completed_at, created_at, updated_at`

// SQLiteAssignmentRepo implements AssignmentRepo using a SQLite database.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (` + assignmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.CourseID,
		a.Name,
		a.Description,
		a.DueDate.Format(time.RFC3339),
		nullableFloatToValue(a.EstimatedHours),
		a.HoursLogged,
		string(a.Priority),
		string(a.PreferredTime),
		boolToInt(a.IsCompleted),
		nullableTimeToString(a.CompletedAt, time.RFC3339),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanAssignment(row)
}

func (r *SQLiteAssignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE course_id = ? ORDER BY due_date, id`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments by course: %w", err)
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *SQLiteAssignmentRepo) ListIncomplete(ctx context.Context, dueBefore time.Time) ([]*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
		WHERE is_completed = 0 AND due_date <= ?
		ORDER BY due_date, id`
	rows, err := r.db.QueryContext(ctx, query, dueBefore.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing incomplete assignments: %w", err)
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *SQLiteAssignmentRepo) Update(ctx context.Context, a *domain.Assignment) error {
	query := `UPDATE assignments SET course_id = ?, name = ?, description = ?,
		due_date = ?, estimated_hours = ?, hours_logged = ?, priority = ?,
		preferred_time = ?, is_completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.CourseID,
		a.Name,
		a.Description,
		a.DueDate.Format(time.RFC3339),
		nullableFloatToValue(a.EstimatedHours),
		a.HoursLogged,
		string(a.Priority),
		string(a.PreferredTime),
		boolToInt(a.IsCompleted),
		nullableTimeToString(a.CompletedAt, time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	var dueDateStr, priorityStr, preferredStr string
	var estimatedHours sql.NullFloat64
	var completedInt int
	var completedAtStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&a.ID, &a.CourseID, &a.Name, &a.Description, &dueDateStr,
		&estimatedHours, &a.HoursLogged, &priorityStr, &preferredStr,
		&completedInt, &completedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	a.DueDate, _ = time.Parse(time.RFC3339, dueDateStr)
	if estimatedHours.Valid {
		a.EstimatedHours = &estimatedHours.Float64
	}
	a.Priority = domain.Priority(priorityStr)
	a.PreferredTime = domain.TimeOfDay(preferredStr)
	a.IsCompleted = intToBool(completedInt)
	a.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &a, nil
}

func scanAssignments(rows *sql.Rows) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const courseColumns = `id, code, name, day_of_week, start_min, end_min, location,
		semester_start, semester_end, excluded_dates, created_at, updated_at`

// SQLiteCourseRepo implements CourseRepo using a SQLite database.
type SQLiteCourseRepo struct {
	db db.DBTX
}

// NewSQLiteCourseRepo creates a new SQLiteCourseRepo.
func NewSQLiteCourseRepo(conn db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: conn}
}

func (r *SQLiteCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	query := `INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Code,
		c.Name,
		c.DayOfWeek,
		int(c.Start),
		int(c.End),
		c.Location,
		c.SemesterStart.Format(dateLayout),
		c.SemesterEnd.Format(dateLayout),
		datesToCSV(c.ExcludedDates),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanCourse(row)
}

func (r *SQLiteCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY code, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *SQLiteCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	query := `UPDATE courses SET code = ?, name = ?, day_of_week = ?, start_min = ?,
		end_min = ?, location = ?, semester_start = ?, semester_end = ?,
		excluded_dates = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Code,
		c.Name,
		c.DayOfWeek,
		int(c.Start),
		int(c.End),
		c.Location,
		c.SemesterStart.Format(dateLayout),
		c.SemesterEnd.Format(dateLayout),
		datesToCSV(c.ExcludedDates),
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var c domain.Course
	var startMin, endMin int
	var semStartStr, semEndStr, excludedCSV string
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.DayOfWeek, &startMin, &endMin, &c.Location,
		&semStartStr, &semEndStr, &excludedCSV, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	c.Start = domain.Clock(startMin)
	c.End = domain.Clock(endMin)
	c.SemesterStart, _ = time.Parse(dateLayout, semStartStr)
	c.SemesterEnd, _ = time.Parse(dateLayout, semEndStr)
	c.ExcludedDates = csvToDates(excludedCSV)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &c, nil
}

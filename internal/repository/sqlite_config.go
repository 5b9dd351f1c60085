package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

// SQLiteConfigRepo implements ConfigRepo using a SQLite database. The
// user_config table holds a single seeded row; work_schedule holds one
// row per weekday.
type SQLiteConfigRepo struct {
	db db.DBTX
}

// NewSQLiteConfigRepo creates a new SQLiteConfigRepo.
func NewSQLiteConfigRepo(conn db.DBTX) *SQLiteConfigRepo {
	return &SQLiteConfigRepo{db: conn}
}

func (r *SQLiteConfigRepo) GetConfig(ctx context.Context) (domain.SchedulingConfig, error) {
	var c domain.SchedulingConfig
	var dayStart, dayEnd int
	err := r.db.QueryRowContext(ctx,
		`SELECT day_start_min, day_end_min, preferred_block_min, min_block_min,
			min_break_min, max_daily_scheduled_min, horizon_days, timezone
		 FROM user_config WHERE id = 'default'`,
	).Scan(&dayStart, &dayEnd, &c.PreferredBlockMin, &c.MinBlockMin,
		&c.MinBreakMin, &c.MaxDailyScheduledMin, &c.HorizonDays, &c.Timezone)
	if err != nil {
		return domain.SchedulingConfig{}, fmt.Errorf("loading config: %w", err)
	}
	c.DayStart = domain.Clock(dayStart)
	c.DayEnd = domain.Clock(dayEnd)
	return c, nil
}

func (r *SQLiteConfigRepo) UpdateConfig(ctx context.Context, c domain.SchedulingConfig) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_config SET day_start_min = ?, day_end_min = ?,
			preferred_block_min = ?, min_block_min = ?, min_break_min = ?,
			max_daily_scheduled_min = ?, horizon_days = ?, timezone = ?
		 WHERE id = 'default'`,
		int(c.DayStart), int(c.DayEnd), c.PreferredBlockMin, c.MinBlockMin,
		c.MinBreakMin, c.MaxDailyScheduledMin, c.HorizonDays, c.Timezone)
	if err != nil {
		return fmt.Errorf("updating config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteConfigRepo) GetWorkSchedule(ctx context.Context) (domain.WorkSchedule, error) {
	var ws domain.WorkSchedule
	rows, err := r.db.QueryContext(ctx,
		`SELECT day_of_week, is_working_day, start_min, end_min
		 FROM work_schedule ORDER BY day_of_week`)
	if err != nil {
		return ws, fmt.Errorf("loading work schedule: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, working, startMin, endMin int
		if err := rows.Scan(&day, &working, &startMin, &endMin); err != nil {
			return ws, fmt.Errorf("scanning work schedule: %w", err)
		}
		if day < 0 || day > 6 {
			continue
		}
		ws[day] = domain.DaySchedule{
			IsWorkingDay: intToBool(working),
			Start:        domain.Clock(startMin),
			End:          domain.Clock(endMin),
		}
	}
	return ws, rows.Err()
}

func (r *SQLiteConfigRepo) UpdateWorkSchedule(ctx context.Context, ws domain.WorkSchedule) error {
	for day, ds := range ws {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO work_schedule (day_of_week, is_working_day, start_min, end_min)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(day_of_week) DO UPDATE SET
				is_working_day = excluded.is_working_day,
				start_min = excluded.start_min,
				end_min = excluded.end_min`,
			day, boolToInt(ds.IsWorkingDay), int(ds.Start), int(ds.End))
		if err != nil {
			return fmt.Errorf("updating work schedule day %d: %w", day, err)
		}
	}
	return nil
}

func (r *SQLiteConfigRepo) ListProtectedIntervals(ctx context.Context) ([]domain.ProtectedInterval, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, start_min, end_min, date
		 FROM protected_intervals ORDER BY start_min, id`)
	if err != nil {
		return nil, fmt.Errorf("listing protected intervals: %w", err)
	}
	defer rows.Close()

	var intervals []domain.ProtectedInterval
	for rows.Next() {
		var p domain.ProtectedInterval
		var startMin, endMin int
		var dateStr sql.NullString
		if err := rows.Scan(&p.ID, &p.Label, &startMin, &endMin, &dateStr); err != nil {
			return nil, fmt.Errorf("scanning protected interval: %w", err)
		}
		p.Window = domain.Window{Start: domain.Clock(startMin), End: domain.Clock(endMin)}
		p.Date = parseNullableTime(dateStr, dateLayout)
		intervals = append(intervals, p)
	}
	return intervals, rows.Err()
}

func (r *SQLiteConfigRepo) CreateProtectedInterval(ctx context.Context, p *domain.ProtectedInterval) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO protected_intervals (id, label, start_min, end_min, date)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Label, int(p.Window.Start), int(p.Window.End),
		nullableTimeToString(p.Date, dateLayout))
	if err != nil {
		return fmt.Errorf("inserting protected interval: %w", err)
	}
	return nil
}

func (r *SQLiteConfigRepo) DeleteProtectedInterval(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM protected_intervals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting protected interval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                    TEXT PRIMARY KEY,
		name                  TEXT NOT NULL,
		description           TEXT NOT NULL DEFAULT '',
		total_hours_allocated REAL NOT NULL DEFAULT 0,
		hours_used            REAL NOT NULL DEFAULT 0,
		weekly_hour_cap       REAL,
		daily_hour_cap        REAL,
		priority              TEXT NOT NULL DEFAULT 'medium'
		                      CHECK(priority IN ('critical','high','medium','low','flexible')),
		preferred_time        TEXT NOT NULL DEFAULT 'flexible'
		                      CHECK(preferred_time IN ('morning','afternoon','evening','flexible')),
		start_date            TEXT,
		end_date              TEXT,
		is_active             INTEGER NOT NULL DEFAULT 1,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_active ON projects(is_active)`,

	`CREATE TABLE IF NOT EXISTS household_tasks (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		estimated_duration_min INTEGER NOT NULL DEFAULT 60,
		recurrence             TEXT NOT NULL DEFAULT 'weekly'
		                       CHECK(recurrence IN ('none','daily','weekly','biweekly','monthly','custom')),
		recurrence_expr        TEXT NOT NULL DEFAULT '',
		last_completed         TEXT,
		priority               TEXT NOT NULL DEFAULT 'flexible'
		                       CHECK(priority IN ('critical','high','medium','low','flexible')),
		preferred_time         TEXT NOT NULL DEFAULT 'flexible'
		                       CHECK(preferred_time IN ('morning','afternoon','evening','flexible')),
		preferred_days         TEXT NOT NULL DEFAULT '',
		is_active              INTEGER NOT NULL DEFAULT 1,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS courses (
		id             TEXT PRIMARY KEY,
		code           TEXT NOT NULL,
		name           TEXT NOT NULL,
		day_of_week    INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
		start_min      INTEGER NOT NULL,
		end_min        INTEGER NOT NULL,
		location       TEXT NOT NULL DEFAULT '',
		semester_start TEXT NOT NULL,
		semester_end   TEXT NOT NULL,
		excluded_dates TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id              TEXT PRIMARY KEY,
		course_id       TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		due_date        TEXT NOT NULL,
		estimated_hours REAL,
		hours_logged    REAL NOT NULL DEFAULT 0,
		priority        TEXT NOT NULL DEFAULT 'high'
		                CHECK(priority IN ('critical','high','medium','low','flexible')),
		preferred_time  TEXT NOT NULL DEFAULT 'flexible'
		                CHECK(preferred_time IN ('morning','afternoon','evening','flexible')),
		is_completed    INTEGER NOT NULL DEFAULT 0,
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_course ON assignments(course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_due ON assignments(due_date)`,

	`CREATE TABLE IF NOT EXISTS external_commitments (
		id          TEXT PRIMARY KEY,
		external_id TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT 'meeting',
		calendar_id TEXT NOT NULL DEFAULT 'primary',
		last_synced TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_commitments_external
		ON external_commitments(external_id) WHERE external_id != ''`,
	`CREATE INDEX IF NOT EXISTS idx_commitments_start ON external_commitments(start_time)`,

	`CREATE TABLE IF NOT EXISTS time_blocks (
		id         TEXT PRIMARY KEY,
		task_type  TEXT NOT NULL
		           CHECK(task_type IN ('project','assignment','household','personal','meeting')),
		task_id    TEXT NOT NULL,
		task_name  TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'scheduled'
		           CHECK(status IN ('scheduled','completed','skipped','external')),
		actual_min INTEGER,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blocks_start ON time_blocks(start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_status ON time_blocks(status)`,

	`CREATE TABLE IF NOT EXISTS scheduling_rules (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		conditions  TEXT NOT NULL DEFAULT '[]',
		actions     TEXT NOT NULL DEFAULT '[]',
		priority    INTEGER NOT NULL DEFAULT 0,
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_config (
		id                      TEXT PRIMARY KEY DEFAULT 'default',
		day_start_min           INTEGER NOT NULL DEFAULT 360,
		day_end_min             INTEGER NOT NULL DEFAULT 1320,
		preferred_block_min     INTEGER NOT NULL DEFAULT 90,
		min_block_min           INTEGER NOT NULL DEFAULT 30,
		min_break_min           INTEGER NOT NULL DEFAULT 15,
		max_daily_scheduled_min INTEGER NOT NULL DEFAULT 600,
		horizon_days            INTEGER NOT NULL DEFAULT 14,
		timezone                TEXT NOT NULL DEFAULT 'UTC'
	)`,

	// Seed default user config
	`INSERT OR IGNORE INTO user_config (id) VALUES ('default')`,

	`CREATE TABLE IF NOT EXISTS work_schedule (
		day_of_week    INTEGER PRIMARY KEY CHECK(day_of_week BETWEEN 0 AND 6),
		is_working_day INTEGER NOT NULL DEFAULT 1,
		start_min      INTEGER NOT NULL DEFAULT 480,
		end_min        INTEGER NOT NULL DEFAULT 960
	)`,

	// Seed Monday-Friday 08:00-16:00, weekend off
	`INSERT OR IGNORE INTO work_schedule (day_of_week, is_working_day, start_min, end_min) VALUES
		(0, 1, 480, 960), (1, 1, 480, 960), (2, 1, 480, 960),
		(3, 1, 480, 960), (4, 1, 480, 960), (5, 0, 480, 960), (6, 0, 480, 960)`,

	`CREATE TABLE IF NOT EXISTS protected_intervals (
		id        TEXT PRIMARY KEY,
		label     TEXT NOT NULL,
		start_min INTEGER NOT NULL,
		end_min   INTEGER NOT NULL,
		date      TEXT
	)`,

	// Seed the baseline life-necessity blocks
	`INSERT OR IGNORE INTO protected_intervals (id, label, start_min, end_min) VALUES
		('default-lunch', 'lunch', 720, 780),
		('default-dinner', 'dinner', 1080, 1140)`,
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jordanhale/timeloom/internal/db"
	"github.com/jordanhale/timeloom/internal/domain"
)

const ruleColumns = `id, name, description, conditions, actions, priority,
		is_active, created_at, updated_at`

// SQLiteRuleRepo implements RuleRepo using a SQLite database. Conditions
// and actions are stored as JSON arrays in TEXT columns.
type SQLiteRuleRepo struct {
	db db.DBTX
}

// NewSQLiteRuleRepo creates a new SQLiteRuleRepo.
func NewSQLiteRuleRepo(conn db.DBTX) *SQLiteRuleRepo {
	return &SQLiteRuleRepo{db: conn}
}

// conditionRow and actionRow pin the stored JSON shape so renames in the
// domain package never silently change what is on disk.
type conditionRow struct {
	Kind      string `json:"kind"`
	TaskType  string `json:"task_type,omitempty"`
	Substring string `json:"substring,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Weekdays  []int  `json:"weekdays,omitempty"`
}

type actionRow struct {
	Kind     string `json:"kind"`
	StartMin int    `json:"start_min,omitempty"`
	EndMin   int    `json:"end_min,omitempty"`
	Delta    int    `json:"delta,omitempty"`
	Date     string `json:"date,omitempty"`
	LimitMin int    `json:"limit_min,omitempty"`
}

func encodeConditions(conds []domain.Condition) (string, error) {
	rows := make([]conditionRow, 0, len(conds))
	for _, c := range conds {
		rows = append(rows, conditionRow{
			Kind:      string(c.Kind),
			TaskType:  string(c.TaskType),
			Substring: c.Substring,
			Priority:  string(c.Priority),
			Weekdays:  weekdaysToInts(c.Weekdays),
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding rule conditions: %w", err)
	}
	return string(data), nil
}

func decodeConditions(data string) ([]domain.Condition, error) {
	var rows []conditionRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("decoding rule conditions: %w", err)
	}
	var conds []domain.Condition
	for _, r := range rows {
		conds = append(conds, domain.Condition{
			Kind:      domain.ConditionKind(r.Kind),
			TaskType:  domain.SourceType(r.TaskType),
			Substring: r.Substring,
			Priority:  domain.Priority(r.Priority),
			Weekdays:  intsToWeekdays(r.Weekdays),
		})
	}
	return conds, nil
}

func encodeActions(actions []domain.Action) (string, error) {
	rows := make([]actionRow, 0, len(actions))
	for _, a := range actions {
		row := actionRow{
			Kind:     string(a.Kind),
			StartMin: int(a.Window.Start),
			EndMin:   int(a.Window.End),
			Delta:    a.Delta,
			LimitMin: a.LimitMin,
		}
		if !a.Date.IsZero() {
			row.Date = a.Date.Format(dateLayout)
		}
		rows = append(rows, row)
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding rule actions: %w", err)
	}
	return string(data), nil
}

func decodeActions(data string) ([]domain.Action, error) {
	var rows []actionRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("decoding rule actions: %w", err)
	}
	var actions []domain.Action
	for _, r := range rows {
		a := domain.Action{
			Kind:     domain.ActionKind(r.Kind),
			Window:   domain.Window{Start: domain.Clock(r.StartMin), End: domain.Clock(r.EndMin)},
			Delta:    r.Delta,
			LimitMin: r.LimitMin,
		}
		if r.Date != "" {
			a.Date, _ = time.Parse(dateLayout, r.Date)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (r *SQLiteRuleRepo) Create(ctx context.Context, rule *domain.Rule) error {
	condJSON, err := encodeConditions(rule.Conditions)
	if err != nil {
		return err
	}
	actJSON, err := encodeActions(rule.Actions)
	if err != nil {
		return err
	}
	query := `INSERT INTO scheduling_rules (` + ruleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		condJSON,
		actJSON,
		rule.Priority,
		boolToInt(rule.IsActive),
		rule.CreatedAt.Format(time.RFC3339),
		rule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

func (r *SQLiteRuleRepo) GetByID(ctx context.Context, id string) (*domain.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM scheduling_rules WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanRule(row)
}

func (r *SQLiteRuleRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM scheduling_rules`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY priority DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *SQLiteRuleRepo) Update(ctx context.Context, rule *domain.Rule) error {
	condJSON, err := encodeConditions(rule.Conditions)
	if err != nil {
		return err
	}
	actJSON, err := encodeActions(rule.Actions)
	if err != nil {
		return err
	}
	query := `UPDATE scheduling_rules SET name = ?, description = ?, conditions = ?,
		actions = ?, priority = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rule.Name,
		rule.Description,
		condJSON,
		actJSON,
		rule.Priority,
		boolToInt(rule.IsActive),
		rule.UpdatedAt.Format(time.RFC3339),
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRuleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scheduling_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanRule(row rowScanner) (*domain.Rule, error) {
	var rule domain.Rule
	var condJSON, actJSON string
	var activeInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Description, &condJSON, &actJSON,
		&rule.Priority, &activeInt, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if rule.Conditions, err = decodeConditions(condJSON); err != nil {
		return nil, err
	}
	if rule.Actions, err = decodeActions(actJSON); err != nil {
		return nil, err
	}
	rule.IsActive = intToBool(activeInt)
	rule.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	rule.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &rule, nil
}

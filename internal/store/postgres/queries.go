package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/trellisplan/trellis/internal/model"
)

// itemColumns is the column list used for SELECT statements on the work_items table.
const itemColumns = `id, name, type, status, priority, estimated_days,
	created_at, created_by, updated_at`

// connectionColumns is the column list used for SELECT statements on the connections table.
const connectionColumns = `id, source_id, target_id, type, strength, status,
	reason, created_at, created_by`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateWorkItem(ctx context.Context, db executor, w *model.WorkItem) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO work_items (
			id, name, type, status, priority, estimated_days,
			created_at, created_by, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		w.ID,
		w.Name,
		string(w.Type),
		string(w.Status),
		w.Priority,
		nullFloat(w.EstimatedDays),
		w.CreatedAt,
		w.CreatedBy,
		w.UpdatedAt,
	)
	return err
}

func queryGetWorkItem(ctx context.Context, db executor, id string) (*model.WorkItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM work_items WHERE id = $1`, id)
	w, err := scanWorkItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func queryListWorkItems(ctx context.Context, db executor, filter model.ItemFilter) ([]*model.WorkItem, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Type) > 0 {
		placeholders := make([]string, len(filter.Type))
		for i, t := range filter.Type {
			placeholders[i] = nextArg()
			args = append(args, string(t))
		}
		whereClauses = append(whereClauses, "type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses, "name ILIKE "+nextArg())
		args = append(args, "%"+filter.Search+"%")
	}

	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := `SELECT COUNT(*) OVER () AS total_count, ` + itemColumns +
		` FROM work_items` + where + ` ORDER BY ` + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		items []*model.WorkItem
		total int
	)
	for rows.Next() {
		w, t, err := scanWorkItemWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
		total = t
	}
	return items, total, rows.Err()
}

// parseSortClause maps a filter sort key to a safe ORDER BY clause.
// Unknown columns fall back to creation order.
func parseSortClause(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	switch col {
	case "priority", "name", "created_at", "updated_at":
	default:
		return "created_at ASC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func queryUpdateWorkItem(ctx context.Context, db executor, w *model.WorkItem) error {
	res, err := db.ExecContext(ctx, `
		UPDATE work_items SET
			name = $2, type = $3, status = $4, priority = $5,
			estimated_days = $6, updated_at = $7
		WHERE id = $1`,
		w.ID,
		w.Name,
		string(w.Type),
		string(w.Status),
		w.Priority,
		nullFloat(w.EstimatedDays),
		w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res, w.ID)
}

func queryDeleteWorkItem(ctx context.Context, db executor, id string) error {
	// Connections referencing the item go with it.
	if _, err := db.ExecContext(ctx,
		`DELETE FROM connections WHERE source_id = $1 OR target_id = $1`, id); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM work_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, id)
}

func queryCreateConnection(ctx context.Context, db executor, c *model.Connection) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO connections (
			id, source_id, target_id, type, strength, status,
			reason, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID,
		c.SourceID,
		c.TargetID,
		string(c.Type),
		c.Strength,
		string(c.Status),
		c.Reason,
		c.CreatedAt,
		c.CreatedBy,
	)
	return err
}

func queryGetConnection(ctx context.Context, db executor, id string) (*model.Connection, error) {
	row := db.QueryRowContext(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id)
	c, err := scanConnection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func queryListConnections(ctx context.Context, db executor, filter model.ConnectionFilter) ([]*model.Connection, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.ItemID != "" {
		p := nextArg()
		whereClauses = append(whereClauses, "(source_id = "+p+" OR target_id = "+p+")")
		args = append(args, filter.ItemID)
	}

	if len(filter.Type) > 0 {
		placeholders := make([]string, len(filter.Type))
		for i, t := range filter.Type {
			placeholders[i] = nextArg()
			args = append(args, string(t))
		}
		whereClauses = append(whereClauses, "type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	where := ""
	if len(whereClauses) > 0 {
		where = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := `SELECT ` + connectionColumns + ` FROM connections` + where + ` ORDER BY created_at ASC, id ASC`
	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*model.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

func queryUpdateConnection(ctx context.Context, db executor, c *model.Connection) error {
	res, err := db.ExecContext(ctx, `
		UPDATE connections SET
			source_id = $2, target_id = $3, type = $4, strength = $5,
			status = $6, reason = $7
		WHERE id = $1`,
		c.ID,
		c.SourceID,
		c.TargetID,
		string(c.Type),
		c.Strength,
		string(c.Status),
		c.Reason,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res, c.ID)
}

func queryRemoveConnection(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE connections SET status = 'removed' WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, id)
}

func requireRowAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no row with id %s", id)
	}
	return nil
}

package postgres

import (
	"database/sql"

	"github.com/trellisplan/trellis/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// nullFloat maps a zero estimate to NULL so "no estimate" survives a
// round trip through the database.
func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

// scanWorkItem scans a single row into a model.WorkItem.
// The row must contain columns in the order defined by itemColumns.
func scanWorkItem(row scannable) (*model.WorkItem, error) {
	var w model.WorkItem
	var (
		estimatedDays sql.NullFloat64
		createdBy     sql.NullString
	)

	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.Type,
		&w.Status,
		&w.Priority,
		&estimatedDays,
		&w.CreatedAt,
		&createdBy,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.EstimatedDays = estimatedDays.Float64
	w.CreatedBy = createdBy.String
	return &w, nil
}

// scanWorkItemWithTotal scans a row of queryListWorkItems results, which
// carry a leading total_count column.
func scanWorkItemWithTotal(row scannable) (*model.WorkItem, int, error) {
	var w model.WorkItem
	var (
		total         int
		estimatedDays sql.NullFloat64
		createdBy     sql.NullString
	)

	err := row.Scan(
		&total,
		&w.ID,
		&w.Name,
		&w.Type,
		&w.Status,
		&w.Priority,
		&estimatedDays,
		&w.CreatedAt,
		&createdBy,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	w.EstimatedDays = estimatedDays.Float64
	w.CreatedBy = createdBy.String
	return &w, total, nil
}

// scanConnection scans a single row into a model.Connection.
// The row must contain columns in the order defined by connectionColumns.
func scanConnection(row scannable) (*model.Connection, error) {
	var c model.Connection
	var (
		reason    sql.NullString
		createdBy sql.NullString
	)

	err := row.Scan(
		&c.ID,
		&c.SourceID,
		&c.TargetID,
		&c.Type,
		&c.Strength,
		&c.Status,
		&reason,
		&c.CreatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	c.Reason = reason.String
	c.CreatedBy = createdBy.String
	return &c, nil
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"timesheet-dashboard/internal/adapter/allocation"
	"timesheet-dashboard/internal/domain"
)

// Source implements ports.EntrySource by reading the time_changes table.
type Source struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSource opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true
func NewSource(ctx context.Context, dsn string, log *slog.Logger) (*Source, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Source{db: db, log: log}, nil
}

const listQuery = `
SELECT id, start_time, end_time,
       work_hours, work_minutes, break_hours, break_minutes,
       project_allocation, workplace_allocation
FROM time_changes
ORDER BY start_time, id;
`

// ListTimeEntries reads every row as one batch. DATETIME columns scan to
// RFC 3339 strings with parseTime=true and to "YYYY-MM-DD hh:mm:ss" without
// it; the time codec accepts both.
func (s *Source) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("mysql: query time_changes: %w", err)
	}
	defer rows.Close()

	var out []domain.TimeEntry
	for i := 0; rows.Next(); i++ {
		var r row
		if err := rows.Scan(&r.id, &r.start, &r.end, &r.workH, &r.workM, &r.breakH, &r.breakM, &r.projectJSON, &r.workplaceJSON); err != nil {
			return nil, fmt.Errorf("mysql: scan row %d: %w", i, err)
		}
		e, err := r.toDomain(i)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.log.Debug("mysql source read entries", slog.Int("count", len(out)))
	return out, nil
}

// Close closes the underlying DB.
func (s *Source) Close() error { return s.db.Close() }

// row is one scanned time_changes record.
type row struct {
	id, start, end               sql.NullString
	workH, workM, breakH, breakM sql.NullInt64
	projectJSON, workplaceJSON   []byte
}

// toDomain maps the row at index i. Allocation columns accept the same list
// and map forms as the time API.
func (r row) toDomain(i int) (domain.TimeEntry, error) {
	projects, err := allocation.Decode(r.projectJSON)
	if err != nil {
		return domain.TimeEntry{}, &domain.EntryError{Index: i, ID: r.id.String, Reason: "project_allocation: " + err.Error()}
	}
	workplaces, err := allocation.Decode(r.workplaceJSON)
	if err != nil {
		return domain.TimeEntry{}, &domain.EntryError{Index: i, ID: r.id.String, Reason: "workplace_allocation: " + err.Error()}
	}
	return domain.TimeEntry{
		ID:                  r.id.String,
		Start:               r.start.String,
		End:                 r.end.String,
		WorkDuration:        duration(r.workH, r.workM),
		BreakDuration:       duration(r.breakH, r.breakM),
		ProjectAllocation:   projects,
		WorkplaceAllocation: workplaces,
	}, nil
}

// duration returns nil when both columns are NULL.
func duration(h, m sql.NullInt64) *domain.Duration {
	if !h.Valid && !m.Valid {
		return nil
	}
	d := &domain.Duration{}
	if h.Valid {
		v := int(h.Int64)
		d.Hours = &v
	}
	if m.Valid {
		v := int(m.Int64)
		d.Minutes = &v
	}
	return d
}

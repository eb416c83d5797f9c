package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/ports/driven"
	"github.com/custodia-labs/payroll/internal/logger"
)

//go:embed schema.sql
var schema string

const tableName = "payroll_employees"

var columns = []string{
	"position", "id", "name", "gender", "department",
	"salary", "start_date", "notes", "profile_pic",
}

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore keeps the employee collection in PostgreSQL.
type RecordStore struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*RecordStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dsn: %w", domain.ErrInvalidInput, err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 0
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "payroll"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := NewRecordStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewRecordStore wraps an existing pool. Call Migrate before first use.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Migrate creates the employees table if it does not exist.
func (s *RecordStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RecordStore) Close() {
	s.pool.Close()
}

// LoadAll reads the collection in position order.
func (s *RecordStore) LoadAll(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, gender, department, salary, start_date, notes, profile_pic
		FROM `+tableName+`
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		var (
			e          domain.Employee
			department []string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Gender, &department, &e.Salary, &e.StartDate, &e.Notes, &e.ProfilePic); err != nil {
			return nil, fmt.Errorf("%w: scanning employee: %w", domain.ErrCorruptStore, err)
		}
		e.Department = domain.Departments(department)
		if e.Department == nil {
			e.Department = domain.Departments{}
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employees: %w", err)
	}
	return employees, nil
}

// SaveAll replaces the table contents with employees in one transaction.
func (s *RecordStore) SaveAll(ctx context.Context, employees []domain.Employee) error {
	if err := s.saveAll(ctx, employees); err != nil {
		logger.Error("writing employees to postgres: %v", err)
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}
	return nil
}

func (s *RecordStore) saveAll(ctx context.Context, employees []domain.Employee) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock out concurrent snapshots until commit.
	if _, err := tx.Exec(ctx, "LOCK TABLE "+tableName+" IN EXCLUSIVE MODE"); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM "+tableName); err != nil {
		return fmt.Errorf("clearing employees: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{tableName}, columns,
		pgx.CopyFromSlice(len(employees), func(i int) ([]any, error) {
			e := employees[i]
			department := []string(e.Department)
			if department == nil {
				department = []string{}
			}
			return []any{i, e.ID, e.Name, e.Gender, department, e.Salary, e.StartDate, e.Notes, e.ProfilePic}, nil
		}))
	if err != nil {
		return fmt.Errorf("copying employees: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

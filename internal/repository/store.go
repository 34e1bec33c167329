package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Companies() CompanyRepository
	Departments() DepartmentRepository
	Employees() EmployeeRepository
	StatusChanges() StatusChangeRepository
	// WithTransaction runs fn with a Store bound to a single transaction.
	// Returning an error from fn rolls the transaction back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *store) Companies() CompanyRepository          { return NewCompanyRepository(s.db) }
func (s *store) Departments() DepartmentRepository     { return NewDepartmentRepository(s.db) }
func (s *store) Employees() EmployeeRepository         { return NewEmployeeRepository(s.db) }
func (s *store) StatusChanges() StatusChangeRepository { return NewStatusChangeRepository(s.db) }

func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

// groupCount is one row of a grouped COUNT query.
type groupCount struct {
	GroupID uint
	Total   int64
}

func toCountMap(rows []groupCount) map[uint]int64 {
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.Total
	}
	return counts
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"workforce/internal/auth"
	"workforce/internal/authz"
	apperrors "workforce/internal/errors"
	"workforce/internal/events"
	"workforce/internal/metrics"
	"workforce/internal/model"
	"workforce/internal/repository"
)

// CompanyInput carries the writable company fields. A nil field is left unchanged.
type CompanyInput struct {
	Name *string
}

// CompanyService exposes company operations.
type CompanyService interface {
	List(ctx context.Context, actor *auth.Actor) (*CompanyListing, error)
	Get(ctx context.Context, actor *auth.Actor, companyID uint) (*CompanyTree, error)
	Create(ctx context.Context, actor *auth.Actor, input CompanyInput) (*CompanySummary, error)
	Update(ctx context.Context, actor *auth.Actor, companyID uint, input CompanyInput) (*CompanySummary, error)
	Delete(ctx context.Context, actor *auth.Actor, companyID uint) (repository.CascadeResult, error)
}

type companyService struct {
	store     repository.Store
	policy    *authz.Policy
	resolver  *OwnershipResolver
	stats     StatisticsService
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	store repository.Store,
	policy *authz.Policy,
	stats StatisticsService,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) CompanyService {
	return &companyService{
		store:     store,
		policy:    policy,
		resolver:  NewOwnershipResolver(policy),
		stats:     stats,
		publisher: publisher,
		metrics:   m,
		logger:    logger.Named("company_service"),
		now:       time.Now,
	}
}

func (s *companyService) tree() *treeBuilder {
	return &treeBuilder{store: s.store, stats: s.stats, now: s.now}
}

// List returns every company with global statistics to admins, and the
// actor's own companies with their departments and employees otherwise.
func (s *companyService) List(ctx context.Context, actor *auth.Actor) (*CompanyListing, error) {
	if err := s.policy.Authorize(actor, authz.ObjectCompany, authz.ActionRead); err != nil {
		return nil, err
	}

	listing := &CompanyListing{Scope: ScopeOwned}
	var managerID *uint
	if s.policy.SeesAllCompanies(actor) {
		listing.Scope = ScopeAll
	} else {
		managerID = &actor.UserID
	}

	companies, err := s.store.Companies().List(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	listing.Companies, err = s.tree().companies(ctx, companies, listing.Scope == ScopeOwned)
	if err != nil {
		return nil, err
	}

	if listing.Scope == ScopeAll {
		listing.Statistics, err = s.stats.Global(ctx, actor)
		if err != nil {
			return nil, err
		}
	}
	return listing, nil
}

func (s *companyService) Get(ctx context.Context, actor *auth.Actor, companyID uint) (*CompanyTree, error) {
	company, err := s.resolver.Company(ctx, s.store, actor, companyID, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	trees, err := s.tree().companies(ctx, []model.Company{*company}, true)
	if err != nil {
		return nil, err
	}
	return &trees[0], nil
}

func (s *companyService) Create(ctx context.Context, actor *auth.Actor, input CompanyInput) (*CompanySummary, error) {
	if err := s.policy.Authorize(actor, authz.ObjectCompany, authz.ActionCreate); err != nil {
		return nil, err
	}
	name, err := companyName(input.Name)
	if err != nil {
		return nil, err
	}

	company := &model.Company{ManagerID: actor.UserID, Name: name}
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := checkCompanyName(ctx, tx, name, 0); err != nil {
			return err
		}
		return tx.Companies().Create(ctx, company)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("company created", zap.Uint("company_id", company.ID), zap.Uint("manager_id", actor.UserID))
	return &CompanySummary{Company: *company}, nil
}

func (s *companyService) Update(ctx context.Context, actor *auth.Actor, companyID uint, input CompanyInput) (*CompanySummary, error) {
	var company *model.Company
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		company, err = s.resolver.Company(ctx, tx, actor, companyID, authz.ActionUpdate)
		if err != nil {
			return err
		}
		if input.Name == nil {
			return nil
		}
		name, err := companyName(input.Name)
		if err != nil {
			return err
		}
		if err := checkCompanyName(ctx, tx, name, company.ID); err != nil {
			return err
		}
		company.Name = name
		return tx.Companies().Update(ctx, company)
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.stats.CompanyCounts(ctx, []uint{company.ID})
	if err != nil {
		return nil, err
	}
	return &CompanySummary{Company: *company, Counts: counts[company.ID]}, nil
}

// Delete removes the company together with everything it owns.
func (s *companyService) Delete(ctx context.Context, actor *auth.Actor, companyID uint) (repository.CascadeResult, error) {
	var res repository.CascadeResult
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		company, err := s.resolver.Company(ctx, tx, actor, companyID, authz.ActionDelete)
		if err != nil {
			return err
		}
		res, err = tx.Companies().Delete(ctx, company.ID)
		return err
	})
	if err != nil {
		return repository.CascadeResult{}, err
	}

	s.logger.Info("company deleted",
		zap.Uint("company_id", companyID),
		zap.Int64("departments", res.Departments),
		zap.Int64("employees", res.Employees),
	)
	s.publisher.Publish(events.Event{Type: events.CompanyDeleted, ActorID: actor.UserID, CompanyID: companyID})
	s.metrics.EventPublished(string(events.CompanyDeleted))
	return res, nil
}

func companyName(raw *string) (string, error) {
	if raw == nil {
		return "", apperrors.NewFieldError("name", "this field is required", nil)
	}
	name := strings.TrimSpace(*raw)
	if name == "" {
		return "", apperrors.NewFieldError("name", "this field may not be blank", nil)
	}
	return name, nil
}

// checkCompanyName is an advisory pre-check; the unique index is authoritative.
func checkCompanyName(ctx context.Context, tx repository.Store, name string, excludeID uint) error {
	exists, err := tx.Companies().ExistsByName(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check company name: %w", err)
	}
	if exists {
		return apperrors.NewFieldError("name", "company with this name already exists", apperrors.ErrDuplicateName)
	}
	return nil
}

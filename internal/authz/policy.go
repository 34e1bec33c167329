// Package authz holds the role half of the access policy. Ownership of a
// company is checked by the services once the role gate has passed.
package authz

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"

	"workforce/internal/auth"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
)

// Object is a resource kind guarded by the policy.
type Object string

const (
	ObjectCompany    Object = "company"
	ObjectDepartment Object = "department"
	ObjectEmployee   Object = "employee"
	ObjectStatistics Object = "statistics"
	// ObjectAllCompanies grants visibility of companies the actor does not manage.
	ObjectAllCompanies Object = "all_companies"
)

// Action is an operation on an Object.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
)

// Safe reports whether the action leaves state unchanged.
func (a Action) Safe() bool {
	return a == ActionRead
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && keyMatch(r.act, p.act)
`

// DefaultPolicies are the (role, object, action) grants. Admins read
// everything but mutate nothing; managers act on what they own.
var DefaultPolicies = [][]string{
	{string(model.RoleAdmin), string(ObjectCompany), string(ActionRead)},
	{string(model.RoleAdmin), string(ObjectDepartment), string(ActionRead)},
	{string(model.RoleAdmin), string(ObjectEmployee), string(ActionRead)},
	{string(model.RoleAdmin), string(ObjectStatistics), string(ActionRead)},
	{string(model.RoleAdmin), string(ObjectAllCompanies), string(ActionRead)},

	{string(model.RoleManager), string(ObjectCompany), "*"},
	{string(model.RoleManager), string(ObjectDepartment), "*"},
	{string(model.RoleManager), string(ObjectEmployee), "*"},

	{string(model.RoleEmployee), string(ObjectCompany), string(ActionRead)},
	{string(model.RoleEmployee), string(ObjectDepartment), string(ActionRead)},
	{string(model.RoleEmployee), string(ObjectEmployee), string(ActionRead)},
}

// Policy evaluates role grants. The enforcer is never modified after
// construction, so a Policy is safe for concurrent use.
type Policy struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

// NewPolicy builds a Policy from the embedded model and the given grants.
func NewPolicy(policies [][]string, logger *zap.Logger) (*Policy, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if len(policies) > 0 {
		if _, err := enforcer.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("authz: failed to load policies: %w", err)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{enforcer: enforcer, logger: logger.Named("authz")}, nil
}

// MustDefault returns the Policy built from DefaultPolicies.
func MustDefault(logger *zap.Logger) *Policy {
	p, err := NewPolicy(DefaultPolicies, logger)
	if err != nil {
		panic(err)
	}
	return p
}

// Can reports whether role is granted act on obj.
func (p *Policy) Can(role model.Role, obj Object, act Action) bool {
	ok, err := p.enforcer.Enforce(string(role), string(obj), string(act))
	if err != nil {
		p.logger.Error("enforce failed", zap.Error(err))
		return false
	}
	return ok
}

// Authorize returns ErrUnauthorized without an actor and ErrForbidden when
// the actor's role is not granted act on obj.
func (p *Policy) Authorize(actor *auth.Actor, obj Object, act Action) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	if !p.Can(actor.Role, obj, act) {
		p.logger.Debug("authz denied request",
			zap.Uint("user_id", actor.UserID),
			zap.String("role", string(actor.Role)),
			zap.String("object", string(obj)),
			zap.String("action", string(act)),
		)
		return apperrors.ErrForbidden
	}
	return nil
}

// SeesAllCompanies reports whether the actor may read companies it does not manage.
func (p *Policy) SeesAllCompanies(actor *auth.Actor) bool {
	return actor != nil && p.Can(actor.Role, ObjectAllCompanies, ActionRead)
}

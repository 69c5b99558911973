package authz

import (
	"github.com/crestline/authz/automaton"
)

// Permission is the frozen, checkable composition of one or more privileges.
// It holds the contributing privileges for introspection and an ordered check
// list: at most one merged automaton check first, then one predicate check
// per configurable privilege in insertion order.
//
// Permissions are immutable and safe for unsynchronized concurrent use.
type Permission struct {
	privileges []Privilege
	checks     []permissionCheck
}

// None is the permission that grants nothing. Builders with no contributions
// return this shared instance, so it is identity comparable.
var None = &Permission{}

// Check reports whether any contributing privilege grants the action for the
// given request and authentication. Automaton based privileges ignore the
// request and authentication entirely.
func (p *Permission) Check(action string, request Request, authentication Authentication) bool {
	for _, check := range p.checks {
		if check.check(action, request, authentication) {
			return true
		}
	}
	return false
}

// Implies reports whether this permission is at least as permissive as
// other, under the existential semantics described in the package
// documentation: it is true iff any single check of p covers any single
// check of other.
func (p *Permission) Implies(other *Permission) bool {
	if p == other {
		return true
	}
	for _, check := range p.checks {
		if check.implies(other.checks) {
			return true
		}
	}
	return false
}

// Privileges returns the contributing privileges, for audit and display.
func (p *Permission) Privileges() []Privilege {
	out := make([]Privilege, len(p.privileges))
	copy(out, p.privileges)
	return out
}

// Builder accumulates privileges and freezes them into a Permission. It is
// not safe for concurrent use; confine each Builder to a single goroutine.
// Build may be called more than once, each call yields a new Permission with
// identical behavior.
type Builder struct {
	privileges []Privilege
	automatons []*automaton.Automaton
	checks     []permissionCheck
	err        error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add records an automaton backed privilege. Its automaton joins the pending
// union that becomes the permission's single merged automaton check.
func (b *Builder) Add(privilege AutomatonPrivilege) *Builder {
	b.privileges = append(b.privileges, privilege)
	b.automatons = append(b.automatons, privilege.Automaton())
	return b
}

// AddPatterns records a privilege defined by raw allow and deny pattern
// lists, contributing minus(allow, deny). Empty allow and deny lists
// contribute the empty automaton: a privilege with no grants must never
// accidentally grant everything.
func (b *Builder) AddPatterns(privilege Privilege, allowed []string, denied []string) *Builder {
	allowedAutomaton, err := automaton.Compile(allowed...)
	if err != nil {
		b.setErr(err)
		return b
	}
	deniedAutomaton, err := automaton.Compile(denied...)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.privileges = append(b.privileges, privilege)
	b.automatons = append(b.automatons, automaton.Minus(allowedAutomaton, deniedAutomaton))
	return b
}

// AddConfigurable records a configurable privilege as a predicate check.
func (b *Builder) AddConfigurable(privilege ConfigurablePrivilege, actionPredicate ActionPredicate, requestPredicate RequestPredicate) *Builder {
	b.privileges = append(b.privileges, privilege)
	b.checks = append(b.checks, &predicateCheck{
		privilege:        privilege,
		actionPredicate:  actionPredicate,
		requestPredicate: requestPredicate,
	})
	return b
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build freezes the accumulated privileges into a Permission. The pending
// automatons merge into one minimized union. An untouched builder returns
// the shared None. Build fails if any added pattern list was malformed; no
// partially built Permission is ever returned.
func (b *Builder) Build() (*Permission, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.privileges) == 0 && len(b.checks) == 0 {
		return None, nil
	}

	checks := make([]permissionCheck, 0, len(b.checks)+1)
	if len(b.automatons) > 0 {
		checks = append(checks, &automatonCheck{automaton: automaton.Union(b.automatons...)})
	}
	checks = append(checks, b.checks...)

	privileges := make([]Privilege, len(b.privileges))
	copy(privileges, b.privileges)
	return &Permission{privileges: privileges, checks: checks}, nil
}

// permissionCheck is one variant of a permission's check list. The implies
// relation only ever holds between checks of the same variant.
type permissionCheck interface {
	check(action string, request Request, authentication Authentication) bool
	// implies reports whether this check covers at least one of others.
	implies(others []permissionCheck) bool
}

// automatonCheck grants any action accepted by its automaton, regardless of
// request or identity.
type automatonCheck struct {
	automaton *automaton.Automaton
}

func (c *automatonCheck) check(action string, _ Request, _ Authentication) bool {
	return c.automaton.Run(action)
}

func (c *automatonCheck) implies(others []permissionCheck) bool {
	for _, other := range others {
		otherCheck, ok := other.(*automatonCheck)
		if !ok {
			continue
		}
		if otherCheck.automaton.SubsetOf(c.automaton) {
			return true
		}
	}
	return false
}

// predicateCheck grants an action when it falls inside the configurable
// privilege's action namespace and the request predicate accepts the request
// in the context of the current authentication.
type predicateCheck struct {
	privilege        ConfigurablePrivilege
	actionPredicate  ActionPredicate
	requestPredicate RequestPredicate
}

func (c *predicateCheck) check(action string, request Request, authentication Authentication) bool {
	if c.actionPredicate == nil || c.requestPredicate == nil {
		return false
	}
	return c.actionPredicate(action) && c.requestPredicate(request, authentication)
}

func (c *predicateCheck) implies(others []permissionCheck) bool {
	for _, other := range others {
		otherCheck, ok := other.(*predicateCheck)
		if !ok {
			continue
		}
		if c.privilege.Equal(otherCheck.privilege) {
			return true
		}
	}
	return false
}

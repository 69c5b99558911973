package authz

import (
	"github.com/crestline/authz/automaton"
)

// ManageApplicationPrivileges grants management of stored application
// privilege definitions, restricted to a configured set of application name
// patterns. Unlike the fixed catalog entries it is parameterized per role
// definition, so it is constructed directly rather than resolved by name.
type ManageApplicationPrivileges struct {
	applicationNames []string
	actions          *automaton.Automaton
	applications     *automaton.Automaton
}

var _ ConfigurablePrivilege = (*ManageApplicationPrivileges)(nil)

func NewManageApplicationPrivileges(applicationNames ...string) (*ManageApplicationPrivileges, error) {
	applications, err := automaton.Compile(applicationNames...)
	if err != nil {
		return nil, err
	}
	return &ManageApplicationPrivileges{
		applicationNames: sortedCopy(applicationNames),
		actions:          automaton.MustCompile("cluster:admin/xpack/security/privilege/*"),
		applications:     applications,
	}, nil
}

func (p *ManageApplicationPrivileges) Name() string { return "manage_application_privileges" }

func (p *ManageApplicationPrivileges) Automaton() *automaton.Automaton { return p.actions }

// ApplicationNames returns the configured application name patterns, sorted.
func (p *ManageApplicationPrivileges) ApplicationNames() []string {
	return sortedCopy(p.applicationNames)
}

// RequestPredicate permits an application privilege request only when every
// application it names matches the configured patterns. Any other request
// type denies.
func (p *ManageApplicationPrivileges) RequestPredicate() RequestPredicate {
	return func(request Request, _ Authentication) bool {
		req, ok := request.(ApplicationPrivilegesRequest)
		if !ok {
			return false
		}
		for _, name := range req.ApplicationNames {
			if !p.applications.Run(name) {
				return false
			}
		}
		return true
	}
}

// Equal reports definitional equality: two instances are equal iff they were
// configured with the same application name patterns. Behaviorally identical
// but differently spelled pattern sets are not equal.
func (p *ManageApplicationPrivileges) Equal(other ConfigurablePrivilege) bool {
	otherPrivilege, ok := other.(*ManageApplicationPrivileges)
	if !ok {
		return false
	}
	if len(p.applicationNames) != len(otherPrivilege.applicationNames) {
		return false
	}
	for i, name := range p.applicationNames {
		if otherPrivilege.applicationNames[i] != name {
			return false
		}
	}
	return true
}

func (p *ManageApplicationPrivileges) BuildPermission(builder *Builder) *Builder {
	return builder.AddConfigurable(p, p.actions.Run, p.RequestPredicate())
}

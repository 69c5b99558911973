package authz

import (
	"github.com/crestline/authz/automaton"
)

// RunAsPermission determines which principals the authenticated user may
// impersonate, using glob patterns over usernames.
type RunAsPermission struct {
	patterns  []string
	usernames *automaton.Automaton
}

// RunAsNone permits impersonating nobody.
var RunAsNone = &RunAsPermission{usernames: automaton.Empty()}

func NewRunAsPermission(usernamePatterns ...string) (*RunAsPermission, error) {
	usernames, err := automaton.Compile(usernamePatterns...)
	if err != nil {
		return nil, err
	}
	return &RunAsPermission{
		patterns:  sortedCopy(usernamePatterns),
		usernames: usernames,
	}, nil
}

// Check reports whether this permission grants running as username.
func (p *RunAsPermission) Check(username string) bool {
	return p.usernames.Run(username)
}

// IsSubsetOf reports whether every principal this permission can run as is
// also covered by other. Role validation uses it to ensure a derived role's
// run-as grant does not exceed the grantor's.
func (p *RunAsPermission) IsSubsetOf(other *RunAsPermission) bool {
	return p.usernames.SubsetOf(other.usernames)
}

// Patterns returns the username patterns, sorted, for audit and display.
func (p *RunAsPermission) Patterns() []string {
	return sortedCopy(p.patterns)
}

package authz

import (
	"github.com/crestline/authz/automaton"
)

// ManageOwnAPIKeyPrivilege grants access to API key management actions, but
// only for keys owned by the authenticated user. Creating a key is always
// permitted, as a new key is inherently the requester's own. Retrieving or
// invalidating keys requires that either the requester authenticated with
// the targeted key itself, or the request names the requester's own username
// and realm.
type ManageOwnAPIKeyPrivilege struct {
	automaton *automaton.Automaton
}

var _ ConfigurablePrivilege = (*ManageOwnAPIKeyPrivilege)(nil)

func NewManageOwnAPIKeyPrivilege() *ManageOwnAPIKeyPrivilege {
	return &ManageOwnAPIKeyPrivilege{
		automaton: automaton.MustCompile("cluster:admin/xpack/security/api_key/*"),
	}
}

func (p *ManageOwnAPIKeyPrivilege) Name() string { return "manage_own_api_key" }

func (p *ManageOwnAPIKeyPrivilege) Automaton() *automaton.Automaton { return p.automaton }

// RequestPredicate returns the ownership predicate. It fails closed: request
// types outside the API key family deny, as do requests whose identity
// fields cannot be correlated with the current authentication.
func (p *ManageOwnAPIKeyPrivilege) RequestPredicate() RequestPredicate {
	return func(request Request, authentication Authentication) bool {
		switch req := request.(type) {
		case CreateAPIKeyRequest:
			return true
		case GetAPIKeyRequest:
			return ownsAPIKeys(authentication, req.APIKeyID, req.Username, req.RealmName)
		case InvalidateAPIKeyRequest:
			return ownsAPIKeys(authentication, req.APIKeyID, req.Username, req.RealmName)
		}
		return false
	}
}

// Equal reports definitional equality. The privilege carries no parameters,
// so any two instances are interchangeable.
func (p *ManageOwnAPIKeyPrivilege) Equal(other ConfigurablePrivilege) bool {
	_, ok := other.(*ManageOwnAPIKeyPrivilege)
	return ok
}

func (p *ManageOwnAPIKeyPrivilege) BuildPermission(builder *Builder) *Builder {
	return builder.AddConfigurable(p, p.automaton.Run, p.RequestPredicate())
}

func ownsAPIKeys(authentication Authentication, apiKeyID, username, realmName string) bool {
	if authentication.Type == AuthenticationTypeAPIKey {
		// An API key may only manage itself, matched by id.
		if apiKeyID != "" {
			return apiKeyID == authentication.APIKeyID() && authentication.APIKeyID() != ""
		}
		return false
	}
	if username != "" && realmName != "" {
		return username == authentication.Principal && realmName == authentication.RealmName
	}
	return false
}

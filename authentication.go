package authz

// AuthenticationType identifies how the current principal authenticated.
type AuthenticationType string

const (
	// AuthenticationTypeRealm is a principal authenticated directly against a
	// realm (native, LDAP, SAML, ...).
	AuthenticationTypeRealm AuthenticationType = "realm"
	// AuthenticationTypeAPIKey is a principal authenticated with an API key.
	AuthenticationTypeAPIKey AuthenticationType = "api_key"
	// AuthenticationTypeAnonymous is an unauthenticated principal.
	AuthenticationTypeAnonymous AuthenticationType = "anonymous"
)

// MetadataAPIKeyID is the Metadata key holding the id of the API key the
// principal authenticated with. Only present for AuthenticationTypeAPIKey.
const MetadataAPIKeyID = "api_key_id"

// Authentication describes the identity attached to an incoming request.
// Configurable privileges correlate it against request fields; automaton
// based privileges never consult it.
type Authentication struct {
	// Principal is the authenticated username.
	Principal string
	// RealmName is the name of the realm that authenticated the principal.
	RealmName string
	// Type records the authentication mechanism.
	Type AuthenticationType
	// Metadata carries mechanism-specific fields, such as MetadataAPIKeyID.
	Metadata map[string]interface{}
}

// APIKeyID returns the id of the authenticating API key, or "" if the
// principal did not authenticate with an API key.
func (a Authentication) APIKeyID() string {
	if a.Type != AuthenticationTypeAPIKey {
		return ""
	}
	id, _ := a.Metadata[MetadataAPIKeyID].(string)
	return id
}

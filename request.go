package authz

// Request is the structured request a permission check may inspect. The core
// treats it as opaque except for the type switches inside configurable
// privileges; automaton based checks ignore it entirely.
type Request interface {
	// RequestName identifies the request type for logging and debugging.
	RequestName() string
}

// CreateAPIKeyRequest asks to create a new API key for the requesting user.
type CreateAPIKeyRequest struct {
	// Name is the human readable name for the new key.
	Name string
}

func (CreateAPIKeyRequest) RequestName() string { return "create_api_key" }

// GetAPIKeyRequest asks to retrieve API keys, targeted either by key id or by
// the owning username and realm.
type GetAPIKeyRequest struct {
	APIKeyID   string
	APIKeyName string
	Username   string
	RealmName  string
}

func (GetAPIKeyRequest) RequestName() string { return "get_api_key" }

// InvalidateAPIKeyRequest asks to invalidate API keys, targeted either by key
// id or by the owning username and realm.
type InvalidateAPIKeyRequest struct {
	APIKeyID   string
	APIKeyName string
	Username   string
	RealmName  string
}

func (InvalidateAPIKeyRequest) RequestName() string { return "invalidate_api_key" }

// ApplicationPrivilegesRequest asks to read or modify the stored privilege
// definitions of the named applications.
type ApplicationPrivilegesRequest struct {
	ApplicationNames []string
}

func (ApplicationPrivilegesRequest) RequestName() string { return "application_privileges" }

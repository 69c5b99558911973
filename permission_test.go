package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvePrivilege(t *testing.T, registry *Registry, name string) Privilege {
	t.Helper()
	privilege, err := registry.Resolve(name)
	require.NoError(t, err)
	return privilege
}

func buildPermission(t *testing.T, registry *Registry, names ...string) *Permission {
	t.Helper()
	builder := NewBuilder()
	for _, name := range names {
		resolvePrivilege(t, registry, name).BuildPermission(builder)
	}
	permission, err := builder.Build()
	require.NoError(t, err)
	return permission
}

func TestEmptyBuilderReturnsNone(t *testing.T) {
	t.Parallel()

	permission, err := NewBuilder().Build()
	require.NoError(t, err)
	require.Same(t, None, permission)

	require.False(t, None.Check("cluster:monitor/state", nil, Authentication{}))
	require.True(t, None.Implies(None))
	require.Empty(t, None.Privileges())
}

func TestPermissionCheck(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	permission := buildPermission(t, registry, "manage_ml", "manage_ilm")

	testCases := []struct {
		Name    string
		Action  string
		Allowed bool
	}{
		{Name: "ILMStop", Action: "cluster:admin/ilm/stop", Allowed: true},
		{Name: "ILMStart", Action: "cluster:admin/ilm/start", Allowed: true},
		{Name: "MLJob", Action: "cluster:admin/xpack/ml/job/open", Allowed: true},
		{Name: "MLMonitor", Action: "cluster:monitor/xpack/ml/info", Allowed: true},
		{Name: "SnapshotStatus", Action: "cluster:admin/snapshot/status", Allowed: false},
		{Name: "Security", Action: "cluster:admin/xpack/security/user/put", Allowed: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Allowed, permission.Check(tc.Action, nil, Authentication{}))
		})
	}
}

// TestPermissionCheckAnyPrivilege exercises the OR across heterogeneous
// checks: an automaton privilege and a configurable privilege each grant
// their own slice of the action namespace.
func TestPermissionCheckAnyPrivilege(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	permission := buildPermission(t, registry, "manage_ilm", "manage_own_api_key")
	authentication := Authentication{
		Principal: "jill",
		RealmName: "native",
		Type:      AuthenticationTypeRealm,
	}

	// Granted by the automaton check, request ignored.
	assert.True(t, permission.Check("cluster:admin/ilm/stop", nil, authentication))
	// Granted by the predicate check.
	assert.True(t, permission.Check("cluster:admin/xpack/security/api_key/create",
		CreateAPIKeyRequest{Name: "ci"}, authentication))
	// Inside the predicate's action namespace but denied by the predicate.
	assert.False(t, permission.Check("cluster:admin/xpack/security/api_key/get",
		GetAPIKeyRequest{APIKeyID: "someone-elses"}, authentication))
	// Outside every check.
	assert.False(t, permission.Check("cluster:admin/snapshot/status", nil, authentication))
}

func TestEmptyActionPrivilegeGrantsNothing(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()
	NewActionPrivilege("custom", nil, nil).BuildPermission(builder)
	permission, err := builder.Build()
	require.NoError(t, err)

	require.NotSame(t, None, permission)
	require.Len(t, permission.Privileges(), 1)
	for _, action := range []string{
		"",
		"cluster:monitor/state",
		"cluster:admin/xpack/security/user/put",
		"indices:admin/template/put",
	} {
		require.False(t, permission.Check(action, nil, Authentication{}), "action %q", action)
	}
}

func TestActionPrivilegeDenyPatterns(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()
	NewActionPrivilege("limited-admin",
		[]string{"cluster:admin/*"},
		[]string{"cluster:admin/xpack/security/*"},
	).BuildPermission(builder)
	permission, err := builder.Build()
	require.NoError(t, err)

	assert.True(t, permission.Check("cluster:admin/repository/put", nil, Authentication{}))
	assert.False(t, permission.Check("cluster:admin/xpack/security/user/put", nil, Authentication{}))
}

func TestBuilderMalformedPattern(t *testing.T) {
	t.Parallel()

	builder := NewBuilder()
	NewActionPrivilege("broken", []string{`cluster:admin\`}, nil).BuildPermission(builder)
	_, err := builder.Build()
	require.Error(t, err)
	require.ErrorContains(t, err, "malformed action pattern")
}

func TestBuildTwice(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	builder := NewBuilder()
	resolvePrivilege(t, registry, "manage_ml").BuildPermission(builder)
	resolvePrivilege(t, registry, "manage_ilm").BuildPermission(builder)

	first, err := builder.Build()
	require.NoError(t, err)
	second, err := builder.Build()
	require.NoError(t, err)
	require.NotSame(t, first, second)

	firstNames := privilegeNames(first)
	require.Equal(t, firstNames, privilegeNames(second))

	sampled := []string{
		"cluster:admin/ilm/stop",
		"cluster:admin/xpack/ml/job/open",
		"cluster:admin/snapshot/status",
		"cluster:monitor/state",
	}
	for _, action := range sampled {
		require.Equal(t,
			first.Check(action, nil, Authentication{}),
			second.Check(action, nil, Authentication{}),
			"action %q", action)
	}
	require.True(t, first.Implies(second))
	require.True(t, second.Implies(first))
}

func privilegeNames(permission *Permission) []string {
	names := make([]string, 0, len(permission.Privileges()))
	for _, privilege := range permission.Privileges() {
		names = append(names, privilege.Name())
	}
	return names
}

func TestPermissionImplies(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()

	mlAndILM := buildPermission(t, registry, "manage_ml", "manage_ilm")
	ilmOnly := buildPermission(t, registry, "manage_ilm")
	all := buildPermission(t, registry, "all")
	ownKeys := buildPermission(t, registry, "manage_own_api_key")

	t.Run("WiderImpliesNarrower", func(t *testing.T) {
		t.Parallel()
		assert.True(t, mlAndILM.Implies(ilmOnly))
		assert.True(t, all.Implies(ilmOnly))
		assert.True(t, all.Implies(mlAndILM))
	})

	t.Run("NarrowerDoesNotImplyWider", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ilmOnly.Implies(mlAndILM))
		assert.False(t, ilmOnly.Implies(all))
	})

	t.Run("SelfImplies", func(t *testing.T) {
		t.Parallel()
		other := buildPermission(t, registry, "manage_ilm")
		assert.True(t, ilmOnly.Implies(other))
		assert.True(t, other.Implies(ilmOnly))
	})

	t.Run("NonEmptyDoesNotImplyNone", func(t *testing.T) {
		t.Parallel()
		// There is no check of None for a check of ours to cover; only
		// None itself implies None.
		assert.False(t, mlAndILM.Implies(None))
		assert.False(t, None.Implies(mlAndILM))
	})

	t.Run("ConfigurableByDefinitionalEquality", func(t *testing.T) {
		t.Parallel()
		otherOwnKeys := buildPermission(t, registry, "manage_own_api_key")
		assert.True(t, ownKeys.Implies(otherOwnKeys))
		assert.True(t, otherOwnKeys.Implies(ownKeys))
	})

	t.Run("AutomatonNeverCoversConfigurable", func(t *testing.T) {
		t.Parallel()
		// manage_api_key's automaton spans every action the configurable
		// privilege could grant, yet implication requires a configurable
		// check on the left.
		apiKeys := buildPermission(t, registry, "manage_api_key")
		assert.False(t, apiKeys.Implies(ownKeys))
	})
}

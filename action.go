package authz

import "strings"

// Well-known cluster action names referenced by individual catalog entries.
// Most privileges are defined by namespace patterns instead; these constants
// exist for the privileges that grant single actions outside their own
// namespace.
const (
	ActionClusterState    = "cluster:monitor/state"
	ActionNodesLiveness   = "cluster:monitor/nodes/liveness"
	ActionHasPrivileges   = "cluster:admin/xpack/security/user/has_privileges"
	ActionInvalidateToken = "cluster:admin/xpack/security/token/invalidate"
	ActionRefreshToken    = "cluster:admin/xpack/security/token/refresh"

	ActionCreateSnapshot  = "cluster:admin/snapshot/create"
	ActionSnapshotsStatus = "cluster:admin/snapshot/status"
	ActionGetSnapshots    = "cluster:admin/snapshot/get"
	ActionGetRepositories = "cluster:admin/repository/get"

	ActionGetLifecycle         = "cluster:admin/ilm/get"
	ActionILMOperationMode     = "cluster:admin/ilm/operation_mode/get"
	ActionStartILM             = "cluster:admin/ilm/start"
	ActionStopILM              = "cluster:admin/ilm/stop"
	ActionGetSnapshotLifecycle = "cluster:admin/slm/get"
)

// IsClusterAction reports whether name is syntactically a cluster action or a
// pattern over cluster actions, as opposed to a catalog privilege name.
func IsClusterAction(name string) bool {
	return strings.HasPrefix(name, "cluster:") || strings.HasPrefix(name, "indices:admin/template/")
}

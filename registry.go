package authz

import (
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/crestline/authz/automaton"
)

// Registry translates cluster privilege names into concrete privileges. It
// is built once at process start, read-only afterwards, and safe for
// unsynchronized concurrent reads. Construct one with NewRegistry and thread
// it through to whatever resolves role definitions; there is no package
// level instance.
type Registry struct {
	catalog map[string]Privilege
	names   []string
}

// NewRegistry builds the builtin privilege catalog. The catalog is a fixed
// set: every entry is either a pattern set or derived algebraically from
// other entries' automatons, such as manage being everything in the cluster
// namespace minus security management.
func NewRegistry() *Registry {
	manageSecurity := automaton.MustCompile("cluster:admin/xpack/security/*")
	manageSAML := automaton.MustCompile("cluster:admin/xpack/security/saml/*",
		ActionInvalidateToken, ActionRefreshToken)
	manageOIDC := automaton.MustCompile("cluster:admin/xpack/security/oidc/*")
	manageToken := automaton.MustCompile("cluster:admin/xpack/security/token/*")
	manageAPIKey := automaton.MustCompile("cluster:admin/xpack/security/api_key/*")
	monitor := automaton.MustCompile("cluster:monitor/*")
	monitorML := automaton.MustCompile("cluster:monitor/xpack/ml/*")
	monitorDataFrame := automaton.MustCompile("cluster:monitor/data_frame/*")
	monitorWatcher := automaton.MustCompile("cluster:monitor/xpack/watcher/*")
	monitorRollup := automaton.MustCompile("cluster:monitor/xpack/rollup/*")
	allCluster := automaton.MustCompile("cluster:*", "indices:admin/template/*")
	manage := automaton.Minus(allCluster, manageSecurity)
	manageML := automaton.MustCompile("cluster:admin/xpack/ml/*", "cluster:monitor/xpack/ml/*")
	manageDataFrame := automaton.MustCompile("cluster:admin/data_frame/*", "cluster:monitor/data_frame/*")
	manageWatcher := automaton.MustCompile("cluster:admin/xpack/watcher/*", "cluster:monitor/xpack/watcher/*")
	transportClient := automaton.MustCompile(ActionNodesLiveness, ActionClusterState)
	manageIdxTemplates := automaton.MustCompile("indices:admin/template/*")
	manageIngestPipelines := automaton.MustCompile("cluster:admin/ingest/pipeline/*")
	manageRollup := automaton.MustCompile("cluster:admin/xpack/rollup/*", "cluster:monitor/xpack/rollup/*")
	manageCCR := automaton.MustCompile("cluster:admin/xpack/ccr/*", ActionClusterState, ActionHasPrivileges)
	createSnapshot := automaton.MustCompile(ActionCreateSnapshot, ActionSnapshotsStatus+"*",
		ActionGetSnapshots, ActionSnapshotsStatus, ActionGetRepositories)
	readCCR := automaton.MustCompile(ActionClusterState, ActionHasPrivileges)
	manageILM := automaton.MustCompile("cluster:admin/ilm/*")
	readILM := automaton.MustCompile(ActionGetLifecycle, ActionILMOperationMode)
	manageSLM := automaton.MustCompile("cluster:admin/slm/*",
		ActionStartILM, ActionStopILM, ActionILMOperationMode)
	readSLM := automaton.MustCompile(ActionGetSnapshotLifecycle, ActionILMOperationMode)

	entries := []Privilege{
		FixedPrivilegeFromAutomaton("none", automaton.Empty()),
		FixedPrivilegeFromAutomaton("all", allCluster),
		FixedPrivilegeFromAutomaton("monitor", monitor),
		FixedPrivilegeFromAutomaton("monitor_ml", monitorML),
		FixedPrivilegeFromAutomaton("monitor_data_frame_transforms", monitorDataFrame),
		FixedPrivilegeFromAutomaton("monitor_watcher", monitorWatcher),
		FixedPrivilegeFromAutomaton("monitor_rollup", monitorRollup),
		FixedPrivilegeFromAutomaton("manage", manage),
		FixedPrivilegeFromAutomaton("manage_ml", manageML),
		FixedPrivilegeFromAutomaton("manage_data_frame_transforms", manageDataFrame),
		FixedPrivilegeFromAutomaton("manage_token", manageToken),
		FixedPrivilegeFromAutomaton("manage_watcher", manageWatcher),
		FixedPrivilegeFromAutomaton("manage_index_templates", manageIdxTemplates),
		FixedPrivilegeFromAutomaton("manage_ingest_pipelines", manageIngestPipelines),
		FixedPrivilegeFromAutomaton("manage_pipeline", manageIngestPipelines),
		FixedPrivilegeFromAutomaton("transport_client", transportClient),
		FixedPrivilegeFromAutomaton("manage_security", manageSecurity),
		FixedPrivilegeFromAutomaton("manage_saml", manageSAML),
		FixedPrivilegeFromAutomaton("manage_oidc", manageOIDC),
		FixedPrivilegeFromAutomaton("manage_api_key", manageAPIKey),
		NewManageOwnAPIKeyPrivilege(),
		FixedPrivilegeFromAutomaton("manage_rollup", manageRollup),
		FixedPrivilegeFromAutomaton("manage_ccr", manageCCR),
		FixedPrivilegeFromAutomaton("read_ccr", readCCR),
		FixedPrivilegeFromAutomaton("create_snapshot", createSnapshot),
		FixedPrivilegeFromAutomaton("manage_ilm", manageILM),
		FixedPrivilegeFromAutomaton("read_ilm", readILM),
		FixedPrivilegeFromAutomaton("manage_slm", manageSLM),
		FixedPrivilegeFromAutomaton("read_slm", readSLM),
	}

	catalog := make(map[string]Privilege, len(entries))
	names := make([]string, 0, len(entries))
	for _, privilege := range entries {
		if _, ok := catalog[privilege.Name()]; ok {
			panic(xerrors.Errorf("duplicate privilege name %q in catalog", privilege.Name()))
		}
		catalog[privilege.Name()] = privilege
		names = append(names, privilege.Name())
	}
	sort.Strings(names)

	return &Registry{catalog: catalog, names: names}
}

// Resolve returns the catalog privilege with the given name. A name that is
// itself a cluster action or action pattern synthesizes an ad-hoc privilege
// for exactly that pattern. Anything else fails with *UnknownPrivilegeError
// listing every valid catalog name.
func (r *Registry) Resolve(name string) (Privilege, error) {
	name = strings.ToLower(name)
	if IsClusterAction(name) {
		privilege, err := NewFixedPrivilege(name, name)
		if err != nil {
			return nil, xerrors.Errorf("compile action pattern privilege: %w", err)
		}
		return privilege, nil
	}
	if privilege, ok := r.catalog[name]; ok {
		return privilege, nil
	}
	return nil, &UnknownPrivilegeError{Name: name, Valid: r.Names()}
}

// Names returns every catalog name, sorted. Callers use it for role
// validation and autocompletion.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

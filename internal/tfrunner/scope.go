package tfrunner

// PrimaryModule is the module that instantiates the stream processors for
// a cluster; deploy and rollback re-apply it across the fleet.
const PrimaryModule = "streamwatch"

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeModule
	scopeClusterModule
)

// Scope selects which part of the infrastructure graph an operation is
// restricted to: everything, one module across all clusters, or one
// module for a single cluster.
type Scope struct {
	kind    scopeKind
	module  string
	cluster string
}

func All() Scope {
	return Scope{kind: scopeAll}
}

func Module(name string) Scope {
	return Scope{kind: scopeModule, module: name}
}

func ClusterModule(name, cluster string) Scope {
	return Scope{kind: scopeClusterModule, module: name, cluster: cluster}
}

// Targets derives the terraform target addresses for the scope from the
// cluster set as configured right now; it is never cached, so a config
// change between commands is honored without restart. An empty result
// means no restriction (the full graph).
func (s Scope) Targets(clusters []string) []string {
	switch s.kind {
	case scopeModule:
		targets := make([]string, 0, len(clusters))
		for _, cluster := range clusters {
			targets = append(targets, "module."+s.module+"_"+cluster)
		}
		return targets
	case scopeClusterModule:
		return []string{"module." + s.module + "_" + s.cluster}
	default:
		return nil
	}
}

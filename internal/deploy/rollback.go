package deploy

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

// Rollback decrements the published version pointer for both function
// kinds in every cluster. Pointers at the Latest sentinel or already at
// version 1 are skipped; rolling back an unpublished version is a no-op,
// not an error. Returns how many pointers changed; the caller re-applies
// the primary module and persists the configuration.
func Rollback(cfg *cliconfig.Config, log *zap.SugaredLogger) (changed int, err error) {
	for _, name := range cfg.ClusterNames() {
		cluster := cfg.Clusters[name]

		next, ok, err := cluster.RuleProcessorVersion.RolledBack()
		if err != nil {
			return changed, errors.Wrapf(err, "cluster %q rule processor", name)
		}
		if ok {
			log.Infof("Rolling back %s rule processor: %s -> %s", name, cluster.RuleProcessorVersion, next)
			cluster.RuleProcessorVersion = next
			changed++
		}

		next, ok, err = cluster.AlertProcessorVersion.RolledBack()
		if err != nil {
			return changed, errors.Wrapf(err, "cluster %q alert processor", name)
		}
		if ok {
			log.Infof("Rolling back %s alert processor: %s -> %s", name, cluster.AlertProcessorVersion, next)
			cluster.AlertProcessorVersion = next
			changed++
		}
	}
	return changed, nil
}

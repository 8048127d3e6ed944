// Package deploy sequences the artifact pipeline with infrastructure
// orchestration: package and publish the selected processors, then
// re-apply the primary module so the new artifact references take effect.
package deploy

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

// Packager builds, uploads and publishes the deployable artifact for one
// function kind, recording the new object key, hash and published
// versions into cfg. Its internals are a collaborator concern.
type Packager interface {
	CreateAndUpload(ctx context.Context, kind Processor, cfg *cliconfig.Config) error
}

// Orchestrator is the plan/confirm/apply cycle the coordinator triggers
// after version bookkeeping is done.
type Orchestrator interface {
	PlanApply(ctx context.Context, opts tfrunner.PlanApplyOptions) (bool, error)
}

type Coordinator struct {
	cfg *cliconfig.Config
	pkg Packager
	tf  Orchestrator
	log *zap.SugaredLogger
}

func NewCoordinator(cfg *cliconfig.Config, pkg Packager, tf Orchestrator, log *zap.SugaredLogger) *Coordinator {
	return &Coordinator{cfg: cfg, pkg: pkg, tf: tf, log: log}
}

// Deploy packages and publishes the selected processors, then runs one
// plan/apply restricted to the primary module across all clusters. The
// applied result is false when the operator rejected the plan; version
// bookkeeping in cfg has already happened by then and must still be
// persisted by the caller.
func (c *Coordinator) Deploy(ctx context.Context, selector Processor) (applied bool, err error) {
	switch selector {
	case ProcessorRule, ProcessorAlert:
		if err := c.pkg.CreateAndUpload(ctx, selector, c.cfg); err != nil {
			return false, errors.Wrapf(err, "packaging %s processor", selector)
		}
	case ProcessorAll:
		for _, kind := range []Processor{ProcessorRule, ProcessorAlert} {
			if err := c.pkg.CreateAndUpload(ctx, kind, c.cfg); err != nil {
				return false, errors.Wrapf(err, "packaging %s processor", kind)
			}
		}
	default:
		return false, errors.Newf("unknown processor selector %d", selector)
	}

	targets := tfrunner.Module(tfrunner.PrimaryModule).Targets(c.cfg.ClusterNames())
	return c.tf.PlanApply(ctx, tfrunner.PlanApplyOptions{Targets: targets})
}

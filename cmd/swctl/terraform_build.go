package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

type TerraformBuildCmd struct {
	Target string `help:"Restrict the run to one module across all clusters (e.g. kinesis)."`
}

func (c *TerraformBuildCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}
	ctx := context.Background()

	scope := tfrunner.All()
	if c.Target != "" {
		scope = tfrunner.Module(c.Target)
	}

	runner := newRunner(cfg, env, log)
	_, err := runner.PlanApply(ctx, tfrunner.PlanApplyOptions{
		Targets: scope.Targets(cfg.ClusterNames()),
	})
	return err
}

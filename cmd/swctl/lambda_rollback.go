package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/deploy"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

type LambdaRollbackCmd struct{}

func (c *LambdaRollbackCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}
	ctx := context.Background()

	changed, err := deploy.Rollback(cfg, log)
	if err != nil {
		return err
	}
	if changed == 0 {
		log.Info("No published versions to roll back")
		return nil
	}

	runner := newRunner(cfg, env, log)
	targets := tfrunner.Module(tfrunner.PrimaryModule).Targets(cfg.ClusterNames())
	applied, err := runner.PlanApply(ctx, tfrunner.PlanApplyOptions{Targets: targets})
	if err != nil {
		return err
	}
	if !applied {
		log.Info("Rollback rejected; configuration left unchanged")
		return nil
	}

	return cfg.Save()
}

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

type TerraformDestroyCmd struct{}

func (c *TerraformDestroyCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}
	ctx := context.Background()

	runner := newRunner(cfg, env, log)

	// The state bucket is about to be destroyed along with everything
	// else, so detach from remote state first.
	if err := runner.DisableRemoteState(ctx); err != nil {
		return err
	}

	_, err := runner.PlanApply(ctx, tfrunner.PlanApplyOptions{
		Destroy:     true,
		SkipRefresh: true,
	})
	return err
}

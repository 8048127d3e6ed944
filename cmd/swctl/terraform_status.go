package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/status"
)

type TerraformStatusCmd struct{}

func (c *TerraformStatusCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}

	status.Report(os.Stdout, cfg)

	return newRunner(cfg, env, log).Outputs(context.Background())
}

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/deploy"
	"github.com/streamwatchhq/streamwatch/internal/lambdapkg"
)

type LambdaDeployCmd struct {
	Processor string `required:"" help:"Which processor(s) to deploy: rule, alert or all."`
}

func (c *LambdaDeployCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}

	selector, err := deploy.ParseProcessor(c.Processor)
	if err != nil {
		return err
	}
	ctx := context.Background()

	pkgr, err := lambdapkg.New(ctx, cfg.Account.Region, artifactDir(cfg, env), log)
	if err != nil {
		return err
	}

	coord := deploy.NewCoordinator(cfg, pkgr, newRunner(cfg, env, log), log)
	if _, err := coord.Deploy(ctx, selector); err != nil {
		return err
	}

	// New versions were published upstream even if the operator declined
	// the apply; the bookkeeping must be persisted either way.
	return cfg.Save()
}

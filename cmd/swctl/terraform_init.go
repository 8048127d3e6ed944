package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/deploy"
	"github.com/streamwatchhq/streamwatch/internal/lambdapkg"
	"github.com/streamwatchhq/streamwatch/internal/tfgen"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

// bootstrapTargets are the resources that must exist before remote state
// and function deployment are possible: the source, testing and state
// buckets plus the secrets KMS key and alias.
var bootstrapTargets = []string{
	"aws_s3_bucket.lambda_source",
	"aws_s3_bucket.integration_testing",
	"aws_s3_bucket.terraform_remote_state",
	"aws_kms_key.streamwatch_secrets",
	"aws_kms_alias.streamwatch_secrets",
}

type TerraformInitCmd struct{}

func (c *TerraformInitCmd) Run(
	cfg *cliconfig.Config, env cliconfig.Env, checker *bincheck.Checker, log *zap.SugaredLogger,
) error {
	if err := checkTerraform(checker, env); err != nil {
		return err
	}
	ctx := context.Background()

	log.Info("Initializing StreamWatch")
	log.Info("Generating cluster files")
	renderer, err := tfgen.NewRenderer()
	if err != nil {
		return err
	}
	if err := renderer.Generate(cfg); err != nil {
		return err
	}

	runner := newRunner(cfg, env, log)

	// There is no remote state yet; the bootstrap plan runs unrefreshed
	// against only the resources that everything else depends on.
	log.Info("Building initial infrastructure")
	applied, err := runner.PlanApply(ctx, tfrunner.PlanApplyOptions{
		Targets:     bootstrapTargets,
		SkipRefresh: true,
	})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	if err := runner.ConfigureRemoteState(ctx); err != nil {
		return err
	}

	log.Info("Deploying Lambda functions")
	pkgr, err := lambdapkg.New(ctx, cfg.Account.Region, artifactDir(cfg, env), log)
	if err != nil {
		return err
	}
	coord := deploy.NewCoordinator(cfg, pkgr, runner, log)
	if _, err := coord.Deploy(ctx, deploy.ProcessorAll); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	log.Info("Building remainder infrastructure")
	_, err = runner.PlanApply(ctx, tfrunner.PlanApplyOptions{})
	return err
}

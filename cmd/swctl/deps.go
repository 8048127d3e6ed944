package main

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/prompt"
	"github.com/streamwatchhq/streamwatch/internal/tfrunner"
)

func newRunner(cfg *cliconfig.Config, env cliconfig.Env, log *zap.SugaredLogger) *tfrunner.Runner {
	prompter := &prompt.Terminal{In: os.Stdin, Out: os.Stdout}
	return tfrunner.New(tfrunner.Options{
		Bin:         env.TerraformBin,
		Dir:         cfg.TerraformDir(),
		VarFile:     cfg.Terraform.VarFile,
		StateBucket: cfg.StateBucket(),
		StateKey:    cfg.Terraform.StateKey,
		Region:      cfg.Account.Region,
		KMSKeyID:    "alias/" + cfg.Account.KMSKeyAlias,
	}, prompter, log)
}

func artifactDir(cfg *cliconfig.Config, env cliconfig.Env) string {
	return filepath.Join(cfg.Root, env.ArtifactDir)
}

// checkTerraform is the precondition check run before any command that
// shells out to terraform; a missing binary aborts before side effects.
func checkTerraform(checker *bincheck.Checker, env cliconfig.Env) error {
	if !checker.InPath(env.TerraformBin) {
		return errors.Newf("%s not found; install Terraform and add it to your $PATH", env.TerraformBin)
	}
	return nil
}

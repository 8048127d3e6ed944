package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/cmd/internal/bincheck"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

type App struct {
	Version kong.VersionFlag `help:"Show version."`

	Lambda struct {
		Deploy   LambdaDeployCmd   `cmd:"" help:"Package, upload and publish processor functions, then apply."`
		Rollback LambdaRollbackCmd `cmd:"" help:"Roll published processor versions back by one and re-apply."`
		Test     LambdaTestCmd     `cmd:"" help:"Run the rule test harness."`
	} `cmd:"" help:"Lambda function commands."`

	Terraform struct {
		Build    TerraformBuildCmd    `cmd:"" help:"Plan and apply infrastructure, optionally restricted to one module."`
		Generate TerraformGenerateCmd `cmd:"" help:"Render per-cluster terraform files."`
		Init     TerraformInitCmd     `cmd:"" help:"Bootstrap infrastructure from a blank state."`
		Destroy  TerraformDestroyCmd  `cmd:"" help:"Destroy all managed infrastructure."`
		Status   TerraformStatusCmd   `cmd:"" help:"Show per-cluster settings and terraform outputs."`
	} `cmd:"" help:"Infrastructure commands."`
}

// set at build time
var version = "dev"

func main() {
	log := newLogger()
	defer log.Sync()

	cfg, err := cliconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	envcfg, err := cliconfig.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	checker := bincheck.NewChecker()

	var app App
	ctx := kong.Parse(&app,
		kong.Name("swctl"),
		kong.Description("StreamWatch operator CLI."),
		kong.Vars{"version": version},
		kong.Bind(cfg, envcfg, checker, log),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.DisableCaller = true
	zcfg.DisableStacktrace = true

	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return logger.Sugar()
}

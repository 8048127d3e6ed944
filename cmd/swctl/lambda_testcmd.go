package main

import (
	"context"

	"github.com/streamwatchhq/streamwatch/internal/cmdexec"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

// LambdaTestCmd delegates to the external rule test harness.
type LambdaTestCmd struct {
	Args []string `arg:"" optional:"" help:"Arguments passed through to the test harness."`
}

func (c *LambdaTestCmd) Run(cfg *cliconfig.Config) error {
	return cmdexec.Run(context.Background(), cfg.Root, "streamwatch-test", c.Args...)
}

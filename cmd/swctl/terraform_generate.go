package main

import (
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/tfgen"
)

type TerraformGenerateCmd struct{}

func (c *TerraformGenerateCmd) Run(cfg *cliconfig.Config, log *zap.SugaredLogger) error {
	log.Info("Generating cluster files")

	renderer, err := tfgen.NewRenderer()
	if err != nil {
		return err
	}
	return renderer.Generate(cfg)
}

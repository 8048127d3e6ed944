package cliconfig

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

// Env holds the per-invocation runtime overrides that do not belong in
// the shared configuration file.
type Env struct {
	// TerraformBin is the terraform binary to invoke.
	TerraformBin string `env:"SWCTL_TERRAFORM_BIN" envDefault:"terraform"`
	// ArtifactDir is where prebuilt deployment artifacts are picked up
	// from, relative to the configuration root.
	ArtifactDir string `env:"SWCTL_ARTIFACT_DIR" envDefault:"dist"`
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "parsing environment")
	}
	return e, nil
}

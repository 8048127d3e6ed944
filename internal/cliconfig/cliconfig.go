// Package cliconfig owns the cluster configuration file, the durable
// source of truth across swctl invocations. The file is loaded once at
// startup, handed to the commands as an explicit context object, and
// written back with Save only after a mutating command succeeds.
package cliconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

const FileName = "streamwatch.toml"

type Config struct {
	Root string `toml:"-"`

	Account        AccountConfig             `toml:"account" validate:"required"`
	Terraform      TerraformConfig           `toml:"terraform" validate:"required"`
	RuleProcessor  ProcessorConfig           `toml:"rule_processor" validate:"required"`
	AlertProcessor ProcessorConfig           `toml:"alert_processor" validate:"required"`
	Clusters       map[string]*ClusterConfig `toml:"clusters" validate:"required,min=1,dive,required"`
}

type AccountConfig struct {
	AwsAccountID string `toml:"aws_account_id" validate:"required,numeric"`
	Prefix       string `toml:"prefix" validate:"required"`
	Region       string `toml:"region" validate:"required"`
	KMSKeyAlias  string `toml:"kms_key_alias" validate:"required"`
}

type TerraformConfig struct {
	// Dir is the terraform working directory, relative to Root.
	Dir      string `toml:"dir" validate:"required"`
	StateKey string `toml:"tfstate_s3_key" validate:"required"`
	VarFile  string `toml:"tfvars" validate:"required"`
}

// ProcessorConfig holds the deployable-artifact bookkeeping for one
// function kind. SourceObjectKey and SourceCurrentHash are rewritten by
// the deployment pipeline after every upload.
type ProcessorConfig struct {
	Handler           string `toml:"handler" validate:"required"`
	SourceBucket      string `toml:"source_bucket" validate:"required"`
	SourceObjectKey   string `toml:"source_object_key"`
	SourceCurrentHash string `toml:"source_current_hash"`
}

type ClusterConfig struct {
	Region                string         `toml:"region" validate:"required"`
	Lambda                LambdaConfig   `toml:"lambda"`
	Kinesis               KinesisConfig  `toml:"kinesis"`
	RuleProcessorVersion  VersionPointer `toml:"rule_processor_version"`
	AlertProcessorVersion VersionPointer `toml:"alert_processor_version"`
	EventBuckets          []string       `toml:"event_buckets"`
}

type LambdaConfig struct {
	TimeoutSec int `toml:"timeout" validate:"required,gte=1"`
	MemoryMB   int `toml:"memory" validate:"required,gte=128"`
}

type KinesisConfig struct {
	Shards         int `toml:"shards" validate:"required,gte=1"`
	RetentionHours int `toml:"retention" validate:"required,gte=24"`
}

// TerraformDir returns the absolute terraform working directory.
func (c *Config) TerraformDir() string {
	return filepath.Join(c.Root, c.Terraform.Dir)
}

// StateBucket derives the remote-state bucket name from the account prefix.
func (c *Config) StateBucket() string {
	return c.Account.Prefix + ".streamwatch.terraform.state"
}

// ClusterNames returns the configured cluster names in sorted order, so
// every traversal of the cluster set is deterministic.
func (c *Config) ClusterNames() []string {
	names := make([]string, 0, len(c.Clusters))
	for name := range c.Clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load locates the configuration file by walking up from the working
// directory and decodes it.
func Load() (*Config, error) {
	root, err := findRoot()
	if err != nil {
		return nil, err
	}
	return LoadAt(root)
}

// LoadAt decodes and validates the configuration file in root.
func LoadAt(root string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(filepath.Join(root, FileName), &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", FileName)
	}

	cfg.Root = root

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", FileName)
	}

	return &cfg, nil
}

// Save writes the in-memory configuration back to disk. Callers invoke it
// only after the mutation it records has actually happened.
func (c *Config) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errors.Wrapf(err, "encoding %s", FileName)
	}
	path := filepath.Join(c.Root, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", FileName)
	}
	return nil
}

func (c *Config) validate() error {
	if filepath.IsAbs(c.Terraform.Dir) {
		return errors.Newf("terraform.dir must be relative, got %q", c.Terraform.Dir)
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for name, cluster := range c.Clusters {
		if err := cluster.RuleProcessorVersion.Validate(); err != nil {
			return errors.Wrapf(err, "cluster %q rule_processor_version", name)
		}
		if err := cluster.AlertProcessorVersion.Validate(); err != nil {
			return errors.Wrapf(err, "cluster %q alert_processor_version", name)
		}
	}
	return nil
}

func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("could not find %s in any parent directory", FileName)
		}
		dir = parent
	}
}

package cliconfig_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/streamwatchhq/streamwatch/internal/testutil"
	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

const validConfig = `
[account]
aws_account_id = "123456789012"
prefix = "acme"
region = "us-east-1"
kms_key_alias = "streamwatch_secrets"

[terraform]
dir = "terraform"
tfstate_s3_key = "streamwatch_state/terraform.tfstate"
tfvars = "terraform.tfvars"

[rule_processor]
handler = "main.HandleRecords"
source_bucket = "acme.streamwatch.source"

[alert_processor]
handler = "main.HandleAlerts"
source_bucket = "acme.streamwatch.source"

[clusters.prod]
region = "us-east-1"
rule_processor_version = "3"
alert_processor_version = "$LATEST"
event_buckets = ["acme-app-logs"]

[clusters.prod.lambda]
timeout = 10
memory = 128

[clusters.prod.kinesis]
shards = 2
retention = 24

[clusters.staging]
region = "us-west-2"

[clusters.staging.lambda]
timeout = 10
memory = 128

[clusters.staging.kinesis]
shards = 1
retention = 24
`

func TestLoadAtValid(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: validConfig,
	})

	cfg, err := cliconfig.LoadAt(root)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Root != root {
		t.Errorf("Root: got %q, want %q", cfg.Root, root)
	}
	if got := cfg.TerraformDir(); got != filepath.Join(root, "terraform") {
		t.Errorf("TerraformDir: got %q", got)
	}
	if got := cfg.StateBucket(); got != "acme.streamwatch.terraform.state" {
		t.Errorf("StateBucket: got %q", got)
	}
	if got := cfg.Clusters["prod"].RuleProcessorVersion; got != "3" {
		t.Errorf("prod rule version: got %q, want %q", got, "3")
	}
	if !cfg.Clusters["prod"].AlertProcessorVersion.IsLatest() {
		t.Error("prod alert version should be the latest sentinel")
	}
}

func TestClusterNamesSorted(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: validConfig,
	})

	cfg, err := cliconfig.LoadAt(root)
	if err != nil {
		t.Fatal(err)
	}

	names := cfg.ClusterNames()
	if len(names) != 2 || names[0] != "prod" || names[1] != "staging" {
		t.Errorf("got %v, want [prod staging]", names)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: validConfig,
	})

	cfg, err := cliconfig.LoadAt(root)
	if err != nil {
		t.Fatal(err)
	}

	cfg.Clusters["prod"].RuleProcessorVersion = "4"
	cfg.RuleProcessor.SourceObjectKey = "rule_processor/abc123.zip"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := cliconfig.LoadAt(root)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Clusters["prod"].RuleProcessorVersion; got != "4" {
		t.Errorf("after save: got %q, want %q", got, "4")
	}
	if got := reloaded.RuleProcessor.SourceObjectKey; got != "rule_processor/abc123.zip" {
		t.Errorf("after save: got %q", got)
	}
}

func TestLoadAtMissingFile(t *testing.T) {
	t.Parallel()

	root := testutil.Setup(t, map[string]string{})

	if _, err := cliconfig.LoadAt(root); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadAtRejectsMissingAccount(t *testing.T) {
	t.Parallel()

	broken := strings.Replace(validConfig, `prefix = "acme"`, "", 1)
	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: broken,
	})

	if _, err := cliconfig.LoadAt(root); err == nil {
		t.Fatal("expected validation error for missing account prefix")
	}
}

func TestLoadAtRejectsAbsoluteTerraformDir(t *testing.T) {
	t.Parallel()

	broken := strings.Replace(validConfig, `dir = "terraform"`, `dir = "/srv/terraform"`, 1)
	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: broken,
	})

	_, err := cliconfig.LoadAt(root)
	if err == nil {
		t.Fatal("expected error for absolute terraform dir")
	}
	if !strings.Contains(err.Error(), "relative") {
		t.Errorf("error should mention relative, got: %v", err)
	}
}

func TestLoadAtRejectsBadVersionPointer(t *testing.T) {
	t.Parallel()

	broken := strings.Replace(validConfig, `rule_processor_version = "3"`, `rule_processor_version = "three"`, 1)
	root := testutil.Setup(t, map[string]string{
		cliconfig.FileName: broken,
	})

	if _, err := cliconfig.LoadAt(root); err == nil {
		t.Fatal("expected error for non-numeric version pointer")
	}
}

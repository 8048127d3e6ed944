// Package lambdapkg implements the deployment artifact pipeline: upload a
// prebuilt bundle to the source bucket, record its hash and object key,
// publish a new version of each cluster's function, and record the
// published version pointers. Building the bundle itself happens outside
// this CLI; the artifact is picked up from the artifact directory.
package lambdapkg

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
	"github.com/streamwatchhq/streamwatch/internal/deploy"
)

type Packager struct {
	s3     *s3.Client
	lambda *lambda.Client
	log    *zap.SugaredLogger

	// artifactDir is the absolute directory holding prebuilt bundles.
	artifactDir string
}

var _ deploy.Packager = (*Packager)(nil)

func New(ctx context.Context, region, artifactDir string, log *zap.SugaredLogger) (*Packager, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}
	return &Packager{
		s3:          s3.NewFromConfig(awscfg),
		lambda:      lambda.NewFromConfig(awscfg),
		log:         log,
		artifactDir: artifactDir,
	}, nil
}

// CreateAndUpload pushes the artifact for one function kind and publishes
// a new version in every cluster, updating cfg's bookkeeping in place.
// The caller persists cfg once the whole deployment has been handled.
func (p *Packager) CreateAndUpload(ctx context.Context, kind deploy.Processor, cfg *cliconfig.Config) error {
	pc, err := processorConfig(kind, cfg)
	if err != nil {
		return err
	}

	funcBase := kind.String() + "_processor"

	artifact := filepath.Join(p.artifactDir, funcBase+".zip")
	data, err := os.ReadFile(artifact)
	if err != nil {
		return errors.Wrapf(err, "reading artifact %s (build it first)", artifact)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	key := path.Join(funcBase, hash[:16]+".zip")

	p.log.Infof("Uploading %s to s3://%s/%s", funcBase, pc.SourceBucket, key)
	_, err = p.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(pc.SourceBucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errors.Wrapf(err, "uploading %s", artifact)
	}

	pc.SourceObjectKey = key
	pc.SourceCurrentHash = hash

	for _, name := range cfg.ClusterNames() {
		cluster := cfg.Clusters[name]
		funcName := cfg.Account.Prefix + "_" + name + "_streamwatch_" + funcBase

		p.log.Infof("Publishing new version of %s", funcName)
		out, err := p.lambda.PublishVersion(ctx,
			&lambda.PublishVersionInput{FunctionName: aws.String(funcName)},
			func(o *lambda.Options) { o.Region = cluster.Region },
		)
		if err != nil {
			return errors.Wrapf(err, "publishing version of %s", funcName)
		}

		version := cliconfig.VersionPointer(aws.ToString(out.Version))
		if err := version.Validate(); err != nil {
			return errors.Wrapf(err, "published version of %s", funcName)
		}

		switch kind {
		case deploy.ProcessorRule:
			cluster.RuleProcessorVersion = version
		case deploy.ProcessorAlert:
			cluster.AlertProcessorVersion = version
		}
		p.log.Infof("%s is now at version %s", funcName, version)
	}

	return nil
}

func processorConfig(kind deploy.Processor, cfg *cliconfig.Config) (*cliconfig.ProcessorConfig, error) {
	switch kind {
	case deploy.ProcessorRule:
		return &cfg.RuleProcessor, nil
	case deploy.ProcessorAlert:
		return &cfg.AlertProcessor, nil
	default:
		return nil, errors.Newf("cannot package processor selector %q", kind)
	}
}

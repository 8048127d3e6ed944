// Package tfgen renders one terraform definition file per configured
// cluster. The rendered output is opaque to the rest of the CLI.
package tfgen

import (
	_ "embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

// reservedCluster collides with the state backend's own implicit
// namespace and can never be used as a cluster name.
const reservedCluster = "main"

var ErrReservedClusterName = errors.New("reserved cluster name")

//go:embed cluster.tf.tmpl
var clusterTemplate string

type clusterData struct {
	Name    string
	Cluster *cliconfig.ClusterConfig
	Account cliconfig.AccountConfig
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("cluster").Funcs(sprig.TxtFuncMap()).Parse(clusterTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parsing cluster template")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Generate writes <cluster>.tf into the terraform directory for every
// configured cluster. All cluster names are checked before any file is
// written, so a reserved name leaves the directory untouched.
func (r *Renderer) Generate(cfg *cliconfig.Config) error {
	names := cfg.ClusterNames()
	for _, name := range names {
		if name == reservedCluster {
			return errors.Wrapf(ErrReservedClusterName, "rename cluster %q to something else", name)
		}
	}

	for _, name := range names {
		if err := r.generateCluster(cfg, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) generateCluster(cfg *cliconfig.Config, name string) error {
	path := filepath.Join(cfg.TerraformDir(), name+".tf")

	fl, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	data := clusterData{
		Name:    name,
		Cluster: cfg.Clusters[name],
		Account: cfg.Account,
	}
	if err := r.tmpl.Execute(fl, data); err != nil {
		fl.Close()
		return errors.Wrapf(err, "rendering %s", path)
	}
	return errors.Wrapf(fl.Close(), "writing %s", path)
}

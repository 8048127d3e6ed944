// Package status renders a read-only summary of the per-cluster
// configuration. No mutation, no confirmation.
package status

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/streamwatchhq/streamwatch/internal/cliconfig"
)

// Report writes one section per cluster with its region, Lambda and
// Kinesis settings and the published version pointers.
func Report(w io.Writer, cfg *cliconfig.Config) {
	fmt.Fprintln(w, "Cluster Info")

	for _, name := range cfg.ClusterNames() {
		cluster := cfg.Clusters[name]

		fmt.Fprintf(w, "\n=== %s ===\n", name)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Setting\tValue")
		fmt.Fprintln(tw, "Region\t"+cluster.Region)
		fmt.Fprintln(tw, "Lambda timeout\t"+strconv.Itoa(cluster.Lambda.TimeoutSec))
		fmt.Fprintln(tw, "Lambda memory\t"+strconv.Itoa(cluster.Lambda.MemoryMB))
		fmt.Fprintln(tw, "Rule processor version\t"+pointerOrUnpublished(cluster.RuleProcessorVersion))
		fmt.Fprintln(tw, "Alert processor version\t"+pointerOrUnpublished(cluster.AlertProcessorVersion))
		fmt.Fprintln(tw, "Kinesis shards\t"+strconv.Itoa(cluster.Kinesis.Shards))
		fmt.Fprintln(tw, "Kinesis retention\t"+strconv.Itoa(cluster.Kinesis.RetentionHours)+"h")
		if len(cluster.EventBuckets) > 0 {
			fmt.Fprintln(tw, "Event buckets\t"+strings.Join(cluster.EventBuckets, ", "))
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
}

func pointerOrUnpublished(v cliconfig.VersionPointer) string {
	if v == "" || v.IsLatest() {
		return string(cliconfig.Latest)
	}
	return string(v)
}

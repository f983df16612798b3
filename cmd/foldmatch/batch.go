package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/BurntSushi/foldmatch/batch"
	"github.com/BurntSushi/foldmatch/cmd/util"
)

var flagMetrics string

var batchCmd = &cobra.Command{
	Use:   "batch pairs.txt",
	Short: "Compare many pairs of structures",
	Long: `Batch reads one pair of PDB files per line (reference, then target,
separated by white space) and prints one line per pair as comparisons
finish: the pair, the verdict, and for the best match its fragment count,
RMSD and core percentage. Pairs that cannot be compared are reported and
skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf := util.Config(v)
		prep, closeCache := util.Preparer(conf)
		defer closeCache()

		f := util.OpenFile(args[0])
		pairs := readPairs(util.ReadLines(f))
		f.Close()

		reg := prometheus.NewRegistry()
		opts := batch.Options{
			Compare: compareOptions(conf),
			Metrics: batch.NewMetrics(reg),
		}
		if util.FlagVerbose {
			opts.Logger = log.New(os.Stderr, "", 0)
		}

		ctx, cancel := interruptible()
		defer cancel()
		w := cmd.OutOrStdout()
		for r := range batch.Run(ctx, pairs, prep, conf, opts) {
			fmt.Fprintln(w, r)
		}
		if len(flagMetrics) > 0 {
			writeMetrics(reg, flagMetrics)
		}
	},
}

func init() {
	batchCmd.Flags().StringVar(&flagMetrics, "metrics", "",
		"Write the batch metrics to this file in text exposition format.")
}

func readPairs(lines []string) []batch.Pair {
	pairs := make([]batch.Pair, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			util.Fatalf("Expected two PDB files per line but got '%s'.", line)
		}
		pairs = append(pairs, batch.Pair{A: fields[0], B: fields[1]})
	}
	return pairs
}

func writeMetrics(reg *prometheus.Registry, path string) {
	families, err := reg.Gather()
	util.Assert(err, "Could not gather metrics")
	f := util.CreateFile(path)
	defer f.Close()
	for _, mf := range families {
		_, err := expfmt.MetricFamilyToText(f, mf)
		util.Assert(err, "Could not write metrics to '%s'", path)
	}
}

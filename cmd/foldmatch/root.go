package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BurntSushi/foldmatch/cmd/util"
	"github.com/BurntSushi/foldmatch/compare"
	"github.com/BurntSushi/foldmatch/config"
	"github.com/BurntSushi/foldmatch/seq"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "foldmatch",
	Short: "Compare protein structures by their secondary structure elements",
	Long: `foldmatch finds the largest geometrically consistent correspondence
between the helices and strands of two protein structures and superposes
them.`,
	SilenceUsage: true,
}

// Flags bound to configuration keys.
var boundFlags = []struct {
	name, key string
	add       func(name string)
}{
	{"rmsd-max", "fit.rmsd-max", func(n string) {
		rootCmd.PersistentFlags().Float64(n, config.Default().Fit.RMSDMax,
			"The largest RMSD (Angstroms) of an acceptable superposition.")
	}},
	{"attempts", "search.attempts", func(n string) {
		rootCmd.PersistentFlags().Int(n, config.Default().Search.Attempts,
			"The number of independent searches per comparison.")
	}},
	{"workers", "search.workers", func(n string) {
		rootCmd.PersistentFlags().Int(n, config.Default().Search.Workers,
			"The number of searches or comparisons running at once.")
	}},
	{"seed", "search.seed", func(n string) {
		rootCmd.PersistentFlags().Int64(n, config.Default().Search.Seed,
			"The random seed of the first search.")
	}},
	{"deep", "search.deep", func(n string) {
		rootCmd.PersistentFlags().Bool(n, false,
			"Grow accepted candidates exhaustively.")
	}},
	{"timeout", "search.timeout", func(n string) {
		rootCmd.PersistentFlags().Duration(n, 0,
			"Stop a comparison after this long and report the best so far.")
	}},
	{"sequence", "sequence.enabled", func(n string) {
		rootCmd.PersistentFlags().Bool(n, false,
			"Require matched fragments to be similar in sequence.")
	}},
}

func init() {
	util.FlagUse(rootCmd, "cpu", "verbose", "config", "cache")
	for _, fl := range boundFlags {
		fl.add(fl.name)
		util.Assert(v.BindPFlag(fl.key, rootCmd.PersistentFlags().Lookup(fl.name)),
			"Could not bind flag '%s'", fl.name)
	}
	rootCmd.AddCommand(classifyCmd, compareCmd, batchCmd)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// interruptible returns a context cancelled by an interrupt. Searches
// stop at their next step and report what they have.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func compareOptions(conf config.Config) compare.Options {
	opts := compare.Options{}
	if g := seq.NewGate(conf.Sequence); g != nil {
		opts.Gate = g
	}
	if util.FlagVerbose {
		opts.Logger = log.New(os.Stderr, "", 0)
	}
	return opts
}

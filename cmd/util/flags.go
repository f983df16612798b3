package util

import (
	"log"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	FlagCpu     = runtime.NumCPU()
	FlagVerbose = false
	FlagConfig  = ""
	FlagCache   = ""
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set  func(cmd *cobra.Command)
	init func()
}

var commonFlags = map[string]commonFlag{
	"cpu": {
		set: func(cmd *cobra.Command) {
			cmd.PersistentFlags().IntVar(&FlagCpu, "cpu", FlagCpu,
				"The max number of CPUs to use.")
		},
		init: func() {
			runtime.GOMAXPROCS(FlagCpu)
		},
	},
	"verbose": {
		set: func(cmd *cobra.Command) {
			cmd.PersistentFlags().BoolVarP(&FlagVerbose, "verbose", "v",
				FlagVerbose, "Print progress and recoverable failures.")
		},
	},
	"config": {
		set: func(cmd *cobra.Command) {
			cmd.PersistentFlags().StringVar(&FlagConfig, "config", FlagConfig,
				"A settings file (YAML, TOML or JSON) overriding the defaults.")
		},
	},
	"cache": {
		set: func(cmd *cobra.Command) {
			cmd.PersistentFlags().StringVar(&FlagCache, "cache", FlagCache,
				"A database of prepared structures, created if missing.")
		},
	},
}

// FlagUse adds the named common flags to cmd as persistent flags and
// arranges for them to take effect before any subcommand runs.
func FlagUse(cmd *cobra.Command, names ...string) {
	var inits []func()
	for _, name := range names {
		fl, ok := commonFlags[name]
		if !ok {
			Fatalf("BUG: unknown common flag '%s'.", name)
		}
		fl.set(cmd)
		if fl.init != nil {
			inits = append(inits, fl.init)
		}
	}
	prev := cmd.PersistentPreRun
	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		for _, f := range inits {
			f()
		}
		if prev != nil {
			prev(c, args)
		}
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BurntSushi/foldmatch/cmd/util"
	"github.com/BurntSushi/foldmatch/compare"
	"github.com/BurntSushi/foldmatch/match"
	"github.com/BurntSushi/foldmatch/pdb"
)

var flagOut string

var compareCmd = &cobra.Command{
	Use:   "compare reference.pdb target.pdb",
	Short: "Find the best fragment correspondence of two structures",
	Long: `Compare superposes the target onto the reference using the largest
consistent correspondence between their helices and strands. A structure
compared to itself must be passed with the same path twice; edges are then
never matched onto themselves.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		conf := util.Config(v)
		prep, closeCache := util.Preparer(conf)
		defer closeCache()

		a := util.Prepared(prep, args[0])
		b := util.Prepared(prep, args[1])
		opts := compareOptions(conf)
		opts.Self = args[0] == args[1]

		ctx, cancel := interruptible()
		defer cancel()
		out, err := compare.Compare(ctx, a, b, conf, opts)
		util.Assert(err, "Could not compare '%s' and '%s'", args[0], args[1])
		printOutcome(cmd, out)

		if len(flagOut) > 0 && out.Best != nil {
			moved := out.Best.Fit.Transform.ApplyEntry(util.PDBRead(args[1]))
			f := util.CreateFile(flagOut)
			util.Assert(pdb.Write(f, moved), "Could not write '%s'", flagOut)
			util.Assert(f.Close(), "Could not write '%s'", flagOut)
		}
	},
}

func init() {
	compareCmd.Flags().StringVarP(&flagOut, "out", "o", "",
		"Write the superposed target to this PDB file.")
}

func printOutcome(cmd *cobra.Command, out match.Outcome) {
	w := cmd.OutOrStdout()
	verdict := "accepted"
	if !out.Accepted() {
		verdict = "rejected: " + out.Reason.String()
	}
	if out.Exhausted {
		verdict += " (time limit reached)"
	}
	fmt.Fprintf(w, "%s after %d attempts, %d candidates\n",
		verdict, out.Attempts, out.Candidates)

	best := out.Best
	if best == nil {
		return
	}
	fmt.Fprintf(w, "fragments:   %d\n", best.Len())
	fmt.Fprintf(w, "RMSD:        %0.3f (%d of %d atoms kept, %0.3f over all)\n",
		best.RMSD(), best.Fit.Kept, best.Fit.Total, best.Fit.RMSDAll)
	fmt.Fprintf(w, "core:        %0.1f%% of fragments, %d residues\n",
		best.CorePercentage, best.CoreResidues)
	fmt.Fprintf(w, "reversed:    %v\n", best.Reversed)
	fmt.Fprintf(w, "transform:   %s\n", best.Fit.Transform)
	for _, p := range best.Pairs {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

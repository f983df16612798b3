package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BurntSushi/foldmatch/cmd/util"
	"github.com/BurntSushi/foldmatch/compare"
)

var classifyCmd = &cobra.Command{
	Use:   "classify structure.pdb",
	Short: "Print the helices and strands of a structure",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		conf := util.Config(v)
		prep, closeCache := util.Preparer(conf)
		defer closeCache()

		p := util.Prepared(prep, args[0])
		util.Verbosef("%d residues, %d CVs", len(p.Residues()), len(p.Assignment.CVs))
		printFragments(cmd, p)
	},
}

func printFragments(cmd *cobra.Command, p *compare.Prepared) {
	out := cmd.OutOrStdout()
	for _, n := range p.Graph.Nodes {
		f := n.Fragment
		first, last := f.Residues[0].ID, f.Residues[len(f.Residues)-1].ID
		sheet := "-"
		if f.Sheet >= 0 {
			sheet = fmt.Sprintf("%d", f.Sheet)
		}
		fmt.Fprintf(out, "%s\t%s\t%s-%s\t%d\t%s\t%s\n",
			n.Name(), f.Type, first, last, f.Len(), sheet, f.Sequence)
	}
}

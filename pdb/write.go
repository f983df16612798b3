package pdb

import (
	"bufio"
	"fmt"
	"io"
)

// Write renders the entry as ATOM/HETATM records. Chains are terminated with
// TER records and, when the entry has more than one model, every model is
// wrapped in MODEL/ENDMDL.
func Write(w io.Writer, e *Entry) error {
	buf := bufio.NewWriter(w)

	var models []int
	seen := make(map[int]bool)
	for _, c := range e.Chains {
		if !seen[c.Model] {
			seen[c.Model] = true
			models = append(models, c.Model)
		}
	}
	multi := len(models) > 1

	serial := 1
	for _, model := range models {
		if multi {
			fmt.Fprintf(buf, "MODEL     %4d\n", model)
		}
		for _, c := range e.Chains {
			if c.Model != model {
				continue
			}
			var last *Residue
			for _, r := range c.Residues {
				for _, a := range r.Atoms {
					fmt.Fprintln(buf, atomRecord(serial, r, a))
					serial++
				}
				last = r
			}
			if last != nil {
				fmt.Fprintf(buf, "TER   %5d      %3s %c%4d%c\n",
					serial, last.Name, c.Ident, last.ID.Seq, icode(last.ID))
				serial++
			}
		}
		if multi {
			fmt.Fprintln(buf, "ENDMDL")
		}
	}
	fmt.Fprintln(buf, "END")
	return buf.Flush()
}

func atomRecord(serial int, r *Residue, a Atom) string {
	record := "ATOM"
	if a.Het {
		record = "HETATM"
	}
	alt := a.AltLoc
	if alt == 0 {
		alt = ' '
	}
	chain := r.ID.Chain
	if chain == 0 {
		chain = ' '
	}
	return fmt.Sprintf("%-6s%5d %-4s%c%3s %c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f"+
		"          %2s",
		record, serial%100000, atomName(a), alt, r.Name, chain, r.ID.Seq,
		icode(r.ID), a.Coords.X, a.Coords.Y, a.Coords.Z,
		a.Occupancy, a.BFactor, a.Element)
}

// atomName pads names so that one letter elements start in column 14.
func atomName(a Atom) string {
	if len(a.Name) < 4 && len(a.Element) <= 1 {
		return " " + a.Name
	}
	return a.Name
}

func icode(id ResidueID) byte {
	if id.ICode == 0 {
		return ' '
	}
	return id.ICode
}

/*
Package rmsd superposes sets of atoms and scores the result.

Superpose implements the Kabsch algorithm on top of gonum's SVD. Fit wraps
it in an iteratively reweighted loop that ignores locally flexible regions.
Backbone and CA pick corresponding atoms out of residue lists, TrimFit
refines residue windows over a known fragment correspondence, and
CoreResidues/CorePercentage measure how much of a reference structure is
covered once the other one has been moved onto it.
*/
package rmsd

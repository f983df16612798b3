// Command foldmatch compares protein structures by their helices and
// strands.
//
// Usage:
//
//	foldmatch classify structure.pdb
//	foldmatch compare [--out moved.pdb] reference.pdb target.pdb
//	foldmatch batch [--metrics metrics.txt] pairs.txt
//
// Every setting of the comparison can be given in a settings file
// (--config), as a FOLDMATCH_* environment variable (e.g.,
// FOLDMATCH_SEARCH_ATTEMPTS=8) or, for the most common ones, as a flag.
package main

func main() {
	execute()
}

package seq

// Alignment is a global alignment of two sequences. A and B have equal
// length; gaps are '-'.
type Alignment struct {
	A, B  []Residue
	Score int
}

func newAlignment(length int) Alignment {
	return Alignment{
		A: make([]Residue, 0, length),
		B: make([]Residue, 0, length),
	}
}

// Identity is the fraction of aligned columns (no gap on either side) that
// hold the same residue.
func (a Alignment) Identity() float64 {
	same, cols := 0, 0
	for i := range a.A {
		if a.A[i] == '-' || a.B[i] == '-' {
			continue
		}
		cols++
		if a.A[i] == a.B[i] {
			same++
		}
	}
	if cols == 0 {
		return 0
	}
	return float64(same) / float64(cols)
}

// NeedlemanWunsch globally aligns A and B with BLOSUM62 scores and a linear
// gap penalty (gap is added once per gap column, so it should be negative).
func NeedlemanWunsch(A, B []Residue, gap int) Alignment {
	// rows correspond to residues in A
	// cols correspond to residues in B
	// matrix[i][j] is the best score of A[:i] against B[:j]
	matrix := make([][]int, len(A)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(B)+1)
		matrix[i][0] = gap * i
	}
	for j := range matrix[0] {
		matrix[0][j] = gap * j
	}
	for i := 1; i <= len(A); i++ {
		for j := 1; j <= len(B); j++ {
			matrix[i][j] = max3(
				matrix[i-1][j-1]+Blosum62(A[i-1], B[j-1]),
				matrix[i-1][j]+gap,
				matrix[i][j-1]+gap)
		}
	}

	// Now trace an optimal path through the matrix starting at (len(A), len(B))
	aligned := newAlignment(len(A) + len(B))
	aligned.Score = matrix[len(A)][len(B)]
	i, j := len(A), len(B)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 &&
			matrix[i][j] == matrix[i-1][j-1]+Blosum62(A[i-1], B[j-1]):
			aligned.A = append(aligned.A, A[i-1])
			aligned.B = append(aligned.B, B[j-1])
			i--
			j--
		case i > 0 && matrix[i][j] == matrix[i-1][j]+gap:
			aligned.A = append(aligned.A, A[i-1])
			aligned.B = append(aligned.B, '-')
			i--
		default:
			aligned.A = append(aligned.A, '-')
			aligned.B = append(aligned.B, B[j-1])
			j--
		}
	}

	// Since we built the alignment in backwards, we must reverse the alignment.
	for i, j := 0, len(aligned.A)-1; i < j; i, j = i+1, j-1 {
		aligned.A[i], aligned.A[j] = aligned.A[j], aligned.A[i]
		aligned.B[i], aligned.B[j] = aligned.B[j], aligned.B[i]
	}
	return aligned
}

// SelfScore is the score of aligning a sequence with itself.
func SelfScore(residues []Residue) int {
	s := 0
	for _, r := range residues {
		s += Blosum62(r, r)
	}
	return s
}

func max3(a, b, c int) int {
	switch {
	case a >= b && a >= c:
		return a
	case b >= c:
		return b
	}
	return c
}

// Package matrix implements the 3x3 homogeneous matrices PDF uses to
// represent 3x2 affine transforms (CTM, text matrix, line matrix; §3).
// The third column is always {0, 0, 1}; row-vector convention is used
// throughout (p' = p * M), matching the PDF content-stream operand order
// for "a b c d e f cm" and friends (§4.8).
package matrix

// Matrix is a 3x3 homogeneous matrix representing a PDF affine transform.
type Matrix [3][3]float64

// Identity returns the identity transform.
func Identity() *Matrix {
	return &Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// New builds the matrix written by content-stream operands "a b c d e f",
// i.e. the matrix
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
func New(a, b, c, d, e, f float64) *Matrix {
	return &Matrix{
		{a, b, 0},
		{c, d, 0},
		{e, f, 1},
	}
}

// Mul returns m*n under row-vector composition: applying the result to a
// point first applies m, then n.
func (m *Matrix) Mul(n *Matrix) *Matrix {
	var mn Matrix

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				mn[i][j] += m[i][k] * n[k][j]
			}
		}
	}

	return &mn
}

// Apply transforms the point (x, y) by m, returning the image point.
func (m *Matrix) Apply(x, y float64) (float64, float64) {
	return x*m[0][0] + y*m[1][0] + m[2][0], x*m[0][1] + y*m[1][1] + m[2][1]
}

// ApplyDelta transforms the vector (dx, dy) by m, ignoring translation.
func (m *Matrix) ApplyDelta(dx, dy float64) (float64, float64) {
	return dx*m[0][0] + dy*m[1][0], dx*m[0][1] + dy*m[1][1]
}

// Clone returns a copy of m, for callers that need to mutate without
// disturbing a shared snapshot (§5 copy-on-write).
func (m *Matrix) Clone() *Matrix {
	n := *m
	return &n
}

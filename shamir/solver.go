package shamir

import (
	"github.com/pkg/errors"

	"github.com/corvid/shadowbmp/gf251"
)

// ErrSingularMatrix is returned by Solve when a pivot element is zero,
// which happens when the supplied x-coordinates (shadow indices) are not
// all distinct and nonzero.
var ErrSingularMatrix = errors.New("shamir: singular Vandermonde matrix (duplicate or zero shadow index)")

// Solve recovers the k coefficients (a0, ..., a_{k-1}) of the degree-(k-1)
// polynomial that passes through the k points (xs[j], ys[j]) over GF(251),
// via Gauss-Jordan elimination on the augmented k*(k+1) Vandermonde matrix
// M[j][t] = xs[j]^t, M[j][k] = ys[j].
//
// The elimination order intentionally does not follow textbook top-down
// Gauss-Jordan: the forward phase eliminates row i using row i-1 as the
// pivot, a quirk inherited from the reference implementation this package
// is grounded on. The result is identical; only the intermediate matrix
// states differ.
func Solve(xs, ys []byte) ([]byte, error) {
	k := len(xs)
	if len(ys) != k {
		return nil, errors.Errorf("shamir: solve: %d x-coordinates but %d y-values", k, len(ys))
	}

	mat := make([][]byte, k)
	for j := 0; j < k; j++ {
		mat[j] = make([]byte, k+1)
		mat[j][0] = 1
		value := xs[j]
		for t := 1; t < k; t++ {
			mat[j][t] = value
			value = gf251.Mul(value, xs[j])
		}
		mat[j][k] = ys[j]
	}

	if err := reduce(mat, k); err != nil {
		return nil, err
	}

	coeff := make([]byte, k)
	for i := 0; i < k; i++ {
		coeff[i] = mat[i][k]
	}
	return coeff, nil
}

// reduce performs the two-phase Gauss-Jordan reduction of mat in place.
func reduce(mat [][]byte, k int) error {
	// Forward elimination to echelon form.
	for j := 0; j < k-1; j++ {
		for i := k - 1; i > j; i-- {
			pivot := mat[i-1][j]
			if pivot == 0 {
				return ErrSingularMatrix
			}
			a := gf251.Mul(mat[i][j], gf251.Inv(pivot))
			for t := j; t <= k; t++ {
				mat[i][t] = gf251.Sub(mat[i][t], gf251.Mul(mat[i-1][t], a))
			}
		}
	}

	// Back substitution to reduced row echelon form.
	for i := k - 1; i > 0; i-- {
		if mat[i][i] == 0 {
			return ErrSingularMatrix
		}
		inv := gf251.Inv(mat[i][i])
		mat[i][k] = gf251.Mul(mat[i][k], inv)
		mat[i][i] = gf251.Mul(mat[i][i], inv)
		for t := i - 1; t >= 0; t-- {
			mat[t][k] = gf251.Sub(mat[t][k], gf251.Mul(mat[i][k], mat[t][i]))
			mat[t][i] = 0
		}
	}

	return nil
}

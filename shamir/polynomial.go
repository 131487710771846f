// Package shamir implements the (k, n) threshold scheme this project uses
// to split a secret bitmap's pixel array into n shadow pixel arrays, and
// to recover the original from any k of them, entirely within GF(251).
package shamir

import "github.com/corvid/shadowbmp/gf251"

// Evaluate computes f(x) = coeff[0] + coeff[1]*x + ... + coeff[k-1]*x^(k-1)
// mod 251 using Horner's method, where coeff holds the k coefficients of a
// degree-(k-1) polynomial block (coeff[0] is the secret byte). x must be in
// [1, 250].
func Evaluate(coeff []byte, x byte) byte {
	var result byte
	for i := len(coeff) - 1; i >= 0; i-- {
		result = gf251.Add(gf251.Mul(result, x), coeff[i])
	}
	return result
}

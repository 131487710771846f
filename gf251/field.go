// Package gf251 implements arithmetic in the finite field GF(251), the
// largest prime field whose elements all fit in a single byte. It backs the
// Shamir polynomial evaluation and Gauss-Jordan solver used to split and
// recover secret bitmaps.
package gf251

// Prime is the field modulus. 251 is the largest prime not exceeding 255,
// so every pixel byte in [0, 250] is a valid field element; callers must
// truncate pixel values above 250 before using this package.
const Prime = 251

// Add returns (a+b) mod 251.
func Add(a, b byte) byte {
	return byte((int(a) + int(b)) % Prime)
}

// Sub returns (a-b) mod 251, always non-negative.
func Sub(a, b byte) byte {
	return mod(int(a)-int(b), Prime)
}

// Mul returns (a*b) mod 251.
func Mul(a, b byte) byte {
	return byte((int(a) * int(b)) % Prime)
}

// Inv returns the multiplicative inverse of a in GF(251). Inv(0) is a
// sentinel and must never be used by a caller.
func Inv(a byte) byte {
	return inverseTable[a]
}

// mod implements a%b with Euclidean (always non-negative) semantics,
// matching the original reference's mod() helper.
func mod(a, b int) byte {
	m := a % b
	if m < 0 {
		m += b
	}
	return byte(m)
}

// inverseTable[a] * a == 1 (mod 251) for a in [1, 250]; inverseTable[0] is
// an unused sentinel. Values are taken from the original bmpsss reference.
var inverseTable = [Prime]byte{
	0, 1, 126, 84, 63, 201, 42, 36, 157, 28, 226, 137, 21, 58, 18, 67, 204,
	192, 14, 185, 113, 12, 194, 131, 136, 241, 29, 93, 9, 26, 159, 81, 102,
	213, 96, 208, 7, 95, 218, 103, 182, 49, 6, 216, 97, 106, 191, 235, 68, 41,
	246, 64, 140, 90, 172, 178, 130, 229, 13, 234, 205, 107, 166, 4, 51, 112,
	232, 15, 48, 211, 104, 99, 129, 196, 173, 164, 109, 163, 177, 197, 91, 31,
	150, 124, 3, 189, 108, 176, 174, 110, 53, 80, 221, 27, 243, 37, 34, 44,
	146, 71, 123, 169, 32, 39, 70, 153, 45, 61, 86, 76, 89, 199, 65, 20, 240,
	227, 132, 118, 117, 135, 228, 195, 179, 100, 83, 249, 2, 168, 151, 72, 56,
	23, 116, 134, 133, 119, 24, 11, 231, 186, 52, 162, 175, 165, 190, 206, 98,
	181, 212, 219, 82, 128, 180, 105, 207, 217, 214, 8, 224, 30, 171, 198, 141,
	77, 75, 143, 62, 248, 127, 101, 220, 160, 54, 74, 88, 142, 87, 78, 55, 122,
	152, 147, 40, 203, 236, 19, 139, 200, 247, 85, 144, 46, 17, 238, 22, 121,
	73, 79, 161, 111, 187, 5, 210, 183, 16, 60, 145, 154, 35, 245, 202, 69,
	148, 33, 156, 244, 43, 155, 38, 149, 170, 92, 225, 242, 158, 222, 10, 115,
	120, 57, 239, 138, 66, 237, 59, 47, 184, 233, 193, 230, 114, 25, 223, 94,
	215, 209, 50, 188, 167, 125, 250,
}

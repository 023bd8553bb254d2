package services

// sequenceRatio computes the Ratcliff/Obershelp similarity of two strings:
// twice the number of matching characters divided by the total length.
// Matching blocks are found by recursively locating the longest common
// substring and matching the pieces to its left and right.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matches := matchingChars([]byte(a), []byte(b))
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

func matchingChars(a, b []byte) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

// longestMatch returns the position and length of the longest common
// substring. Ties resolve to the earliest occurrence in a, then in b.
func longestMatch(a, b []byte) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0
	// lengths[j] holds the length of the common suffix ending at a[i], b[j]
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := lengths[j+1]
			if a[i] == b[j] {
				lengths[j+1] = prev + 1
				if lengths[j+1] > bestSize {
					bestSize = lengths[j+1]
					bestA = i - bestSize + 1
					bestB = j - bestSize + 1
				}
			} else {
				lengths[j+1] = 0
			}
			prev = cur
		}
	}
	return bestA, bestB, bestSize
}

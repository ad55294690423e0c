package quiz

import "math/rand/v2"

// shuffle returns a uniformly random permutation of items using
// Fisher-Yates. The input slice is left untouched.
func shuffle(r *rand.Rand, items []StudyItem) []StudyItem {
	out := make([]StudyItem, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

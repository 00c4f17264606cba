package catalog

import "math/rand/v2"

// IntNer is the subset of *rand.Rand used for picks.
type IntNer interface {
	IntN(n int) int
}

// PickRandom returns a uniformly chosen element of titles. rng may be nil.
func PickRandom(titles []string, rng IntNer) (string, bool) {
	if len(titles) == 0 {
		return "", false
	}
	if rng == nil {
		return titles[rand.IntN(len(titles))], true
	}
	return titles[rng.IntN(len(titles))], true
}

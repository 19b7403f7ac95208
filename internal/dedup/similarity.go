package dedup

// DefaultTitleSimilarityThreshold is the minimum similarity ratio at which
// two normalized job titles are considered the same role.
const DefaultTitleSimilarityThreshold = 0.85

// LevenshteinDistance returns the minimum number of single-rune insertions,
// deletions, and substitutions needed to transform a into b.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// CalculateSimilarity returns a closeness score in [0, 1] between two
// strings: 1 means identical, 0 means completely different. Two empty
// strings score 1. The score is symmetric in its arguments.
func CalculateSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1.0
	}

	distance := LevenshteinDistance(a, b)
	return float64(longer-distance) / float64(longer)
}

// AreJobTitlesSimilar reports whether two job titles refer to the same role.
// Both titles are normalized first; a title that normalizes to empty never
// matches anything, so missing data cannot produce a spurious duplicate.
// Byte-equal normalized forms short-circuit without computing distance.
func AreJobTitlesSimilar(a, b string, threshold float64) bool {
	na := NormalizeJobTitle(a)
	nb := NormalizeJobTitle(b)

	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	return CalculateSimilarity(na, nb) >= threshold
}

// AreURLsSimilar reports whether two URLs point at the same page. URL
// matching is deliberately exact on the normalized forms, never fuzzy: a
// resource either is or is not the same page. Either side empty after
// normalization means no match.
func AreURLsSimilar(a, b string) bool {
	na := NormalizeURL(a)
	nb := NormalizeURL(b)

	if na == "" || nb == "" {
		return false
	}

	return na == nb
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

package service

// matchRatio computes a string similarity ratio in [0,1]: twice the
// number of matching characters over the combined length, where matches
// are counted from the longest common blocks found recursively (the
// classic Ratcliff/Obershelp measure, equivalent to Python difflib's
// SequenceMatcher.ratio without junk heuristics). The nutrition reference
// names are short ASCII-ish strings, so the quadratic block search is
// never a concern.
func matchRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingSize(ra, rb)
	return 2 * float64(matched) / float64(total)
}

type matchSpan struct {
	alo, ahi, blo, bhi int
}

// matchingSize sums the sizes of all matching blocks between a and b.
func matchingSize(a, b []rune) int {
	// Index b's rune positions once; reused by every longest-match pass.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	size := 0
	queue := []matchSpan{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		span := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, span)
		if k == 0 {
			continue
		}
		size += k
		queue = append(queue,
			matchSpan{span.alo, i, span.blo, j},
			matchSpan{i + k, span.ahi, j + k, span.bhi},
		)
	}
	return size
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the
// span, preferring the earliest i, then the earliest j on ties.
func longestMatch(a []rune, b2j map[rune][]int, span matchSpan) (besti, bestj, bestsize int) {
	besti, bestj = span.alo, span.blo

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := span.alo; i < span.ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < span.blo {
				continue
			}
			if j >= span.bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}

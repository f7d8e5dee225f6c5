package engine

import (
	"slices"
	"strings"

	"github.com/idilsaglam/combo/internal/model"
)

// Equal compares two combinations as sets of (listId, itemId) pairs.
// Order and copied values are ignored.
func Equal(a, b model.Combination) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortedPairs(a), sortedPairs(b)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// InHistory reports whether c equals any past combination.
func InHistory(c model.Combination, history []model.Combination) bool {
	for _, h := range history {
		if Equal(c, h) {
			return true
		}
	}
	return false
}

type pair struct{ list, item string }

func sortedPairs(c model.Combination) []pair {
	out := make([]pair, len(c))
	for i, s := range c {
		out[i] = pair{s.ListID, s.ItemID}
	}
	slices.SortFunc(out, func(x, y pair) int {
		if n := strings.Compare(x.list, y.list); n != 0 {
			return n
		}
		return strings.Compare(x.item, y.item)
	})
	return out
}

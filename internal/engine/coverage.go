package engine

import "github.com/idilsaglam/combo/internal/model"

// DefaultCoverageLimit bounds how many combinations Coverage will enumerate.
const DefaultCoverageLimit = 100_000

// Coverage counts how much of the combination space the rules forbid.
type Coverage struct {
	Total     int
	Forbidden int
}

func (c Coverage) Allowed() int { return c.Total - c.Forbidden }

// ComputeCoverage enumerates every combination of the non-empty lists and
// tests it against rules. It gives up, returning false, when the space is
// larger than limit.
func ComputeCoverage(lists []model.List, rules []model.InvalidCombination, limit int) (Coverage, bool) {
	var nonEmpty []model.List
	total := 1
	for _, l := range lists {
		if len(l.Items) == 0 {
			continue
		}
		if total > limit/len(l.Items) {
			return Coverage{}, false
		}
		total *= len(l.Items)
		nonEmpty = append(nonEmpty, l)
	}
	if len(nonEmpty) == 0 {
		return Coverage{}, true
	}

	cov := Coverage{Total: total}
	idx := make([]int, len(nonEmpty))
	c := make(model.Combination, len(nonEmpty))
	for {
		for k, l := range nonEmpty {
			it := l.Items[idx[k]]
			c[k] = model.Selection{ListID: l.ID, ItemID: it.ID, Value: it.Value}
		}
		if IsInvalid(c, rules) {
			cov.Forbidden++
		}
		// odometer step
		k := len(idx) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(nonEmpty[k].Items) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return cov, true
		}
	}
}

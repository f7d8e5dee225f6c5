package engine

import "github.com/idilsaglam/combo/internal/model"

// IsMatch reports whether c hits ic: for every list the rule names, c picks
// one of the rule's items for that list. Rules with fewer than two entries,
// or whose entries all sit in one list, never match.
func IsMatch(c model.Combination, ic model.InvalidCombination) bool {
	if len(ic.Items) < 2 {
		return false
	}
	flagged := make(map[string]map[string]bool)
	for _, sel := range ic.Items {
		if flagged[sel.ListID] == nil {
			flagged[sel.ListID] = make(map[string]bool)
		}
		flagged[sel.ListID][sel.ItemID] = true
	}
	if len(flagged) < 2 {
		return false
	}
	for listID, items := range flagged {
		hit := false
		for _, sel := range c {
			if sel.ListID == listID && items[sel.ItemID] {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// IsInvalid reports whether any rule matches c.
func IsInvalid(c model.Combination, rules []model.InvalidCombination) bool {
	for _, ic := range rules {
		if IsMatch(c, ic) {
			return true
		}
	}
	return false
}

package model

import (
	"fmt"
	"strings"
)

// Item is a single selectable value. It belongs to exactly one List.
type Item struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// List is a named, insertion-ordered collection of items.
type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Selection points at one item of one list at the moment of a draw.
// Value is copied so a rendered combination stays stable after edits.
type Selection struct {
	ListID string `json:"listId"`
	ItemID string `json:"itemId"`
	Value  string `json:"value"`
}

// Combination is one Selection per non-empty list, in list order.
type Combination []Selection

// InvalidCombination forbids its items from co-occurring in a draw.
// Items from the same list are alternatives; items from different lists
// must all be hit for the rule to match.
type InvalidCombination struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Items []Selection `json:"items"`
}

// ListIDs returns the distinct list ids referenced by the rule, in first-seen order.
func (ic InvalidCombination) ListIDs() []string {
	seen := make(map[string]bool, len(ic.Items))
	var out []string
	for _, s := range ic.Items {
		if !seen[s.ListID] {
			seen[s.ListID] = true
			out = append(out, s.ListID)
		}
	}
	return out
}

// DisplayName renders the rule as "Protein: Tofu + Side: [Fries, Rice]".
func (ic InvalidCombination) DisplayName(lists []List) string {
	if len(ic.Items) == 0 {
		return "Invalid Combination"
	}
	byList := make(map[string][]string)
	for _, s := range ic.Items {
		byList[s.ListID] = append(byList[s.ListID], s.Value)
	}
	parts := make([]string, 0, len(byList))
	for _, id := range ic.ListIDs() {
		name := "Unknown"
		for _, l := range lists {
			if l.ID == id {
				name = l.Name
				break
			}
		}
		values := byList[id]
		if len(values) == 1 {
			parts = append(parts, fmt.Sprintf("%s: %s", name, values[0]))
		} else {
			parts = append(parts, fmt.Sprintf("%s: [%s]", name, strings.Join(values, ", ")))
		}
	}
	return strings.Join(parts, " + ")
}

// FindItem resolves ref against the list's items by id, 1-based index or
// case-insensitive value, in that order.
func (l *List) FindItem(ref string) (*Item, error) {
	i := resolve(ref, len(l.Items),
		func(i int) string { return l.Items[i].ID },
		func(i int) string { return l.Items[i].Value })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q in list %q", ErrItemNotFound, ref, l.Name)
	}
	return &l.Items[i], nil
}

func (l *List) itemIndex(id string) int {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}

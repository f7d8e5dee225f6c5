package model

import (
	"fmt"
	"strconv"
	"strings"
)

// HistoryLimit caps how many past combinations are remembered.
const HistoryLimit = 5

// State is the whole persisted tree. Field names follow the browser app's
// exported state so its dumps can be imported unchanged.
type State struct {
	Lists               []List               `json:"lists"`
	History             []Combination        `json:"lastSelections"`
	InvalidCombinations []InvalidCombination `json:"invalidCombinations"`
}

// NewState returns an empty state with all collections allocated.
func NewState() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize replaces missing collections with empty ones. Older state files
// may lack fields added later (invalidCombinations in particular).
func (s *State) Normalize() {
	if s.Lists == nil {
		s.Lists = []List{}
	}
	if s.History == nil {
		s.History = []Combination{}
	}
	if s.InvalidCombinations == nil {
		s.InvalidCombinations = []InvalidCombination{}
	}
	for i := range s.Lists {
		if s.Lists[i].Items == nil {
			s.Lists[i].Items = []Item{}
		}
	}
	for i := range s.InvalidCombinations {
		if s.InvalidCombinations[i].Items == nil {
			s.InvalidCombinations[i].Items = []Selection{}
		}
	}
	if len(s.History) > HistoryLimit {
		s.History = s.History[:HistoryLimit]
	}
}

// ---------------------------------------------------
// Lookup
// ---------------------------------------------------

// List returns the list with the given id, or nil.
func (s *State) List(id string) *List {
	for i := range s.Lists {
		if s.Lists[i].ID == id {
			return &s.Lists[i]
		}
	}
	return nil
}

// FindList resolves ref by id, 1-based index or case-insensitive name.
func (s *State) FindList(ref string) (*List, error) {
	i := resolve(ref, len(s.Lists),
		func(i int) string { return s.Lists[i].ID },
		func(i int) string { return s.Lists[i].Name })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrListNotFound, ref)
	}
	return &s.Lists[i], nil
}

// InvalidCombination returns the rule with the given id, or nil.
func (s *State) InvalidCombination(id string) *InvalidCombination {
	for i := range s.InvalidCombinations {
		if s.InvalidCombinations[i].ID == id {
			return &s.InvalidCombinations[i]
		}
	}
	return nil
}

// FindInvalidCombination resolves ref by id, 1-based index or case-insensitive name.
func (s *State) FindInvalidCombination(ref string) (*InvalidCombination, error) {
	i := resolve(ref, len(s.InvalidCombinations),
		func(i int) string { return s.InvalidCombinations[i].ID },
		func(i int) string { return s.InvalidCombinations[i].Name })
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, ref)
	}
	return &s.InvalidCombinations[i], nil
}

func resolve(ref string, n int, id, name func(int) string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1
	}
	for i := 0; i < n; i++ {
		if id(i) == ref {
			return i
		}
	}
	if k, err := strconv.Atoi(ref); err == nil && k >= 1 && k <= n {
		return k - 1
	}
	for i := 0; i < n; i++ {
		if strings.EqualFold(name(i), ref) {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------
// Lists and items
// ---------------------------------------------------

func (s *State) AddList(name string) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	s.Lists = append(s.Lists, List{ID: newID(), Name: name, Items: []Item{}})
	return &s.Lists[len(s.Lists)-1], nil
}

func (s *State) RenameList(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	l := s.List(id)
	if l == nil {
		return fmt.Errorf("%w: %q", ErrListNotFound, id)
	}
	l.Name = name
	return nil
}

// DeleteList removes the list and every rule entry that pointed into it.
func (s *State) DeleteList(id string) error {
	idx := -1
	for i := range s.Lists {
		if s.Lists[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrListNotFound, id)
	}
	s.Lists = append(s.Lists[:idx], s.Lists[idx+1:]...)
	s.pruneRules(func(sel Selection) bool { return sel.ListID == id })
	return nil
}

func (s *State) AddItem(listID, value string) (*Item, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrEmptyValue
	}
	l := s.List(listID)
	if l == nil {
		return nil, fmt.Errorf("%w: %q", ErrListNotFound, listID)
	}
	l.Items = append(l.Items, Item{ID: newID(), Value: value})
	return &l.Items[len(l.Items)-1], nil
}

// UpdateItem changes an item's value and refreshes the copies held by rules.
func (s *State) UpdateItem(listID, itemID, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyValue
	}
	l := s.List(listID)
	if l == nil {
		return fmt.Errorf("%w: %q", ErrListNotFound, listID)
	}
	i := l.itemIndex(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrItemNotFound, itemID)
	}
	l.Items[i].Value = value
	for r := range s.InvalidCombinations {
		items := s.InvalidCombinations[r].Items
		for k := range items {
			if items[k].ListID == listID && items[k].ItemID == itemID {
				items[k].Value = value
			}
		}
	}
	return nil
}

func (s *State) DeleteItem(listID, itemID string) error {
	l := s.List(listID)
	if l == nil {
		return fmt.Errorf("%w: %q", ErrListNotFound, listID)
	}
	i := l.itemIndex(itemID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrItemNotFound, itemID)
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)
	s.pruneRules(func(sel Selection) bool {
		return sel.ListID == listID && sel.ItemID == itemID
	})
	return nil
}

// pruneRules drops matching entries from every rule; rules left empty go too.
func (s *State) pruneRules(drop func(Selection) bool) {
	rules := s.InvalidCombinations[:0]
	for _, r := range s.InvalidCombinations {
		kept := make([]Selection, 0, len(r.Items))
		for _, sel := range r.Items {
			if !drop(sel) {
				kept = append(kept, sel)
			}
		}
		if len(kept) == 0 {
			continue
		}
		r.Items = kept
		rules = append(rules, r)
	}
	s.InvalidCombinations = rules
}

// ---------------------------------------------------
// Invalid combinations
// ---------------------------------------------------

// AddInvalidCombination validates refs against the current lists and stores
// a new rule. Only ListID and ItemID of each ref are read; values are copied
// from the items. An empty name is replaced by the rule's display name.
func (s *State) AddInvalidCombination(name string, refs []Selection) (*InvalidCombination, error) {
	items, err := s.resolveRefs(refs)
	if err != nil {
		return nil, err
	}
	ic := InvalidCombination{ID: newID(), Items: items}
	ic.Name = strings.TrimSpace(name)
	if ic.Name == "" {
		ic.Name = ic.DisplayName(s.Lists)
	}
	s.InvalidCombinations = append(s.InvalidCombinations, ic)
	return &s.InvalidCombinations[len(s.InvalidCombinations)-1], nil
}

// UpdateInvalidCombination replaces a rule's entries. An empty name keeps
// the current one.
func (s *State) UpdateInvalidCombination(id, name string, refs []Selection) error {
	ic := s.InvalidCombination(id)
	if ic == nil {
		return fmt.Errorf("%w: %q", ErrRuleNotFound, id)
	}
	items, err := s.resolveRefs(refs)
	if err != nil {
		return err
	}
	ic.Items = items
	if name = strings.TrimSpace(name); name != "" {
		ic.Name = name
	}
	return nil
}

func (s *State) DeleteInvalidCombination(id string) error {
	for i := range s.InvalidCombinations {
		if s.InvalidCombinations[i].ID == id {
			s.InvalidCombinations = append(s.InvalidCombinations[:i], s.InvalidCombinations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrRuleNotFound, id)
}

func (s *State) resolveRefs(refs []Selection) ([]Selection, error) {
	type pair struct{ list, item string }
	seen := make(map[pair]bool, len(refs))
	lists := make(map[string]bool)
	out := make([]Selection, 0, len(refs))
	for _, ref := range refs {
		l := s.List(ref.ListID)
		if l == nil {
			return nil, fmt.Errorf("%w: %q", ErrListNotFound, ref.ListID)
		}
		i := l.itemIndex(ref.ItemID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q in list %q", ErrItemNotFound, ref.ItemID, l.Name)
		}
		p := pair{l.ID, ref.ItemID}
		if seen[p] {
			continue
		}
		seen[p] = true
		lists[l.ID] = true
		out = append(out, Selection{ListID: l.ID, ItemID: ref.ItemID, Value: l.Items[i].Value})
	}
	if len(lists) < 2 {
		return nil, ErrTooFewLists
	}
	return out, nil
}

// ---------------------------------------------------
// History
// ---------------------------------------------------

// PushHistory records c as the most recent draw, evicting the oldest entry
// past HistoryLimit.
func (s *State) PushHistory(c Combination) {
	entry := make(Combination, len(c))
	copy(entry, c)
	s.History = append([]Combination{entry}, s.History...)
	if len(s.History) > HistoryLimit {
		s.History = s.History[:HistoryLimit]
	}
}

func (s *State) ClearHistory() { s.History = []Combination{} }

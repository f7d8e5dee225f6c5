package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/combo/internal/model"
)

// row adapts a List, an Item or a rule to bubbles/list.Item.
type row struct {
	id    string
	owner string // list of an item row in the rule builder
	text  string
	note  string
	mark  string
}

// Implement list.Item interface
func (r row) Title() string       { return r.text }
func (r row) Description() string { return r.note }
func (r row) FilterValue() string { return r.text }

func listRows(lists []model.List) []list.Item {
	out := make([]list.Item, 0, len(lists))
	for _, l := range lists {
		out = append(out, row{id: l.ID, text: l.Name, note: fmt.Sprintf("%d items", len(l.Items))})
	}
	return out
}

func itemRows(l *model.List) []list.Item {
	if l == nil {
		return nil
	}
	out := make([]list.Item, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, row{id: it.ID, text: it.Value})
	}
	return out
}

func ruleRows(st *model.State) []list.Item {
	out := make([]list.Item, 0, len(st.InvalidCombinations))
	for _, ic := range st.InvalidCombinations {
		r := row{id: ic.ID, text: ic.Name}
		if d := ic.DisplayName(st.Lists); d != ic.Name {
			r.note = d
		}
		out = append(out, r)
	}
	return out
}

// pick identifies one item in the rule builder.
type pick struct{ list, item string }

// builderRows lists every item of every list, checked when picked.
func builderRows(lists []model.List, picked map[pick]bool) []list.Item {
	var out []list.Item
	for _, l := range lists {
		for _, it := range l.Items {
			mark := "[ ]"
			if picked[pick{l.ID, it.ID}] {
				mark = successStyle.Render("[x]")
			}
			out = append(out, row{id: it.ID, owner: l.ID, text: l.Name + ": " + it.Value, mark: mark})
		}
	}
	return out
}

// Custom delegate to control how rows render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(row)
	line := r.text
	if r.mark != "" {
		line = r.mark + " " + line
	}
	if r.note != "" {
		line += " " + mutedStyle.Render(r.note)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

func selectedRow(l list.Model) (row, bool) {
	r, ok := l.SelectedItem().(row)
	return r, ok
}

func selectedID(l list.Model) string {
	r, _ := selectedRow(l)
	return r.id
}

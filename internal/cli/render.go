package cli

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/ui"
)

func listName(lists []model.List, id string) string {
	for _, l := range lists {
		if l.ID == id {
			return l.Name
		}
	}
	return "Unknown"
}

// comboLines renders one "List → Value" line per selection.
func comboLines(c model.Combination, lists []model.List) []string {
	t := ui.Current()
	lines := make([]string, 0, len(c))
	for _, s := range c {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			ui.C(t.Muted, listName(lists, s.ListID)), t.Arrow, ui.C(t.Accent, s.Value)))
	}
	return lines
}

// comboInline renders a combination on one line: "Chicken + Rice".
func comboInline(c model.Combination) string {
	values := make([]string, 0, len(c))
	for _, s := range c {
		values = append(values, s.Value)
	}
	return strings.Join(values, " "+ui.Current().Join+" ")
}

func listsLines(lists []model.List) []string {
	t := ui.Current()
	if len(lists) == 0 {
		return []string{ui.C(t.Muted, "no lists yet")}
	}
	lines := make([]string, 0, len(lists))
	for i, l := range lists {
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1,
			ui.C(t.Title, l.Name), ui.C(t.Muted, fmt.Sprintf("(%d items)", len(l.Items)))))
	}
	return lines
}

func itemsLines(l *model.List) []string {
	t := ui.Current()
	lines := []string{ui.C(t.Title, l.Name)}
	if len(l.Items) == 0 {
		return append(lines, ui.C(t.Muted, "no items yet"))
	}
	for i, it := range l.Items {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, it.Value))
	}
	return lines
}

func rulesLines(st *model.State) []string {
	t := ui.Current()
	if len(st.InvalidCombinations) == 0 {
		return []string{ui.C(t.Muted, "no invalid combinations")}
	}
	lines := make([]string, 0, len(st.InvalidCombinations))
	for i, r := range st.InvalidCombinations {
		line := fmt.Sprintf("%2d. %s", i+1, ui.C(t.Title, r.Name))
		if d := r.DisplayName(st.Lists); d != r.Name {
			line += " " + ui.C(t.Muted, d)
		}
		lines = append(lines, line)
	}
	return lines
}

func historyLines(st *model.State) []string {
	t := ui.Current()
	if len(st.History) == 0 {
		return []string{ui.C(t.Muted, "no draws yet")}
	}
	lines := make([]string, 0, len(st.History))
	for i, c := range st.History {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, comboInline(c)))
	}
	return lines
}

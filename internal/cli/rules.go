package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/ui"
)

// parseRef resolves "list:item". Names may contain colons, so every split
// point is tried until both halves resolve.
func parseRef(st *model.State, ref string) (model.Selection, error) {
	if !strings.Contains(ref, ":") {
		return model.Selection{}, usageErr("invalid reference %q: want <list>:<item>", ref)
	}
	var firstErr error
	for i := 0; i < len(ref); i++ {
		if ref[i] != ':' {
			continue
		}
		l, err := st.FindList(ref[:i])
		if err == nil {
			var it *model.Item
			if it, err = l.FindItem(ref[i+1:]); err == nil {
				return model.Selection{ListID: l.ID, ItemID: it.ID, Value: it.Value}, nil
			}
		}
		// an item miss in a list that exists says more than a list miss
		if firstErr == nil || (errors.Is(firstErr, model.ErrListNotFound) && errors.Is(err, model.ErrItemNotFound)) {
			firstErr = err
		}
	}
	return model.Selection{}, firstErr
}

func parseRefs(st *model.State, refs []string) ([]model.Selection, error) {
	out := make([]model.Selection, 0, len(refs))
	for _, r := range refs {
		sel, err := parseRef(st, r)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

type ruleView struct {
	model.InvalidCombination
	Display string `json:"display"`
}

// NewRuleCommand manages invalid combinations.
func NewRuleCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rule",
		Aliases: []string{"rules"},
		Short:   "manage invalid combinations",
		Long: `Manage invalid combinations (rules).

A rule names items as <list>:<item>. Items from the same list are
alternatives; a draw is rejected when it hits one of them in every list
the rule mentions. A rule must span at least two lists.`,
	}

	var addName string
	add := &cobra.Command{
		Use:     "add <list:item>...",
		Short:   "forbid a combination",
		Example: "  combo rule add Protein:Tofu Side:Fries Side:Rice --name \"no tofu plates\"",
		Args:    rangeArgs(2, -1, "combo rule add <list:item> <list:item>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			var created model.InvalidCombination
			err := a.update(cmd.Context(), func(st *model.State) error {
				refs, err := parseRefs(st, args)
				if err != nil {
					return err
				}
				ic, err := st.AddInvalidCombination(addName, refs)
				if err != nil {
					return err
				}
				created = *ic
				return nil
			})
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return a.writeJSON(created)
			}
			ui.OK(fmt.Sprintf("added rule %q", created.Name))
			return nil
		},
	}
	add.Flags().StringVarP(&addName, "name", "n", "", "rule name (default: generated from its items)")

	var editName string
	edit := &cobra.Command{
		Use:   "edit <rule> [list:item...]",
		Short: "replace a rule's items or rename it",
		Args:  rangeArgs(1, -1, "combo rule edit <rule> [--name NAME] [list:item...]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && editName == "" {
				return usageErr("nothing to change: give --name or new items")
			}
			var name string
			err := a.update(cmd.Context(), func(st *model.State) error {
				ic, err := st.FindInvalidCombination(args[0])
				if err != nil {
					return err
				}
				refs := ic.Items
				if len(args) > 1 {
					if refs, err = parseRefs(st, args[1:]); err != nil {
						return err
					}
				}
				if err := st.UpdateInvalidCombination(ic.ID, editName, refs); err != nil {
					return err
				}
				name = st.InvalidCombination(ic.ID).Name
				return nil
			})
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("updated rule %q", name))
			return nil
		},
	}
	edit.Flags().StringVarP(&editName, "name", "n", "", "new rule name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "show invalid combinations",
			Args:  exactArgs(0, "combo rule ls"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.view(cmd.Context(), func(st *model.State) error {
					if a.jsonOut() {
						out := make([]ruleView, 0, len(st.InvalidCombinations))
						for _, r := range st.InvalidCombinations {
							out = append(out, ruleView{InvalidCombination: r, Display: r.DisplayName(st.Lists)})
						}
						return a.writeJSON(out)
					}
					ui.Panel(rulesLines(st))
					return nil
				})
			},
		},
		add,
		edit,
		&cobra.Command{
			Use:     "rm <rule>",
			Aliases: []string{"delete"},
			Short:   "delete an invalid combination",
			Args:    exactArgs(1, "combo rule rm <rule>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				var name string
				err := a.update(cmd.Context(), func(st *model.State) error {
					ic, err := st.FindInvalidCombination(args[0])
					if err != nil {
						return err
					}
					name = ic.Name
					return st.DeleteInvalidCombination(ic.ID)
				})
				if err != nil {
					return err
				}
				ui.OK(fmt.Sprintf("deleted rule %q", name))
				return nil
			},
		},
	)
	return cmd
}

type checkResult struct {
	Valid   bool                       `json:"valid"`
	Matches []model.InvalidCombination `json:"matches"`
}

// NewCheckCommand tests a hand-made combination against the rules. It
// exits 1 when the combination is forbidden.
func NewCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check <list:item>...",
		Short:   "tell whether a combination is forbidden",
		Example: "  combo check Protein:Tofu Side:Fries",
		Args:    rangeArgs(1, -1, "combo check <list:item>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res checkResult
			err := a.view(cmd.Context(), func(st *model.State) error {
				sels, err := parseRefs(st, args)
				if err != nil {
					return err
				}
				seen := make(map[string]bool, len(sels))
				for _, s := range sels {
					if seen[s.ListID] {
						return usageErr("a combination holds one item per list (%s given twice)", listName(st.Lists, s.ListID))
					}
					seen[s.ListID] = true
				}
				c := model.Combination(sels)
				res.Matches = []model.InvalidCombination{}
				for _, r := range st.InvalidCombinations {
					if engine.IsMatch(c, r) {
						res.Matches = append(res.Matches, r)
					}
				}
				res.Valid = len(res.Matches) == 0
				if a.jsonOut() {
					return a.writeJSON(res)
				}
				if res.Valid {
					ui.OK(comboInline(c) + " is allowed")
					return nil
				}
				ui.Fail(comboInline(c) + " is forbidden by:")
				for _, r := range res.Matches {
					ui.Hint(fmt.Sprintf("  %s %s", ui.Current().Bullet, r.Name))
				}
				return nil
			})
			if err != nil {
				return err
			}
			if !res.Valid {
				return reported(1)
			}
			return nil
		},
	}
}

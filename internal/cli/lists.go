package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/ui"
)

// NewListCommand manages lists.
func NewListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists"},
		Short:   "manage lists",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Short:   "show all lists",
			Args:    exactArgs(0, "combo list ls"),
			Aliases: []string{"show"},
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.view(cmd.Context(), func(st *model.State) error {
					if a.jsonOut() {
						return a.writeJSON(st.Lists)
					}
					ui.Panel(listsLines(st.Lists))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <name>...",
			Short: "create a list",
			Args:  rangeArgs(1, -1, "combo list add <name>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				var created *model.List
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.AddList(name)
					if err != nil {
						return err
					}
					created = l
					return nil
				})
				if err != nil {
					return err
				}
				if a.jsonOut() {
					return a.writeJSON(created)
				}
				ui.OK(fmt.Sprintf("added list %q", created.Name))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <list> <name>...",
			Short: "rename a list",
			Args:  rangeArgs(2, -1, "combo list rename <list> <name>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args[1:], " ")
				var old string
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					old = l.Name
					return st.RenameList(l.ID, name)
				})
				if err != nil {
					return err
				}
				ui.OK(fmt.Sprintf("renamed %q to %q", old, strings.TrimSpace(name)))
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <list>",
			Aliases: []string{"delete"},
			Short:   "delete a list with its items",
			Args:    exactArgs(1, "combo list rm <list>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				var name string
				var dropped int
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					name = l.Name
					before := len(st.InvalidCombinations)
					if err := st.DeleteList(l.ID); err != nil {
						return err
					}
					dropped = before - len(st.InvalidCombinations)
					return nil
				})
				if err != nil {
					return err
				}
				ui.OK(fmt.Sprintf("deleted list %q", name))
				if dropped > 0 {
					ui.Hint(fmt.Sprintf("%d invalid combination(s) no longer applied and were removed", dropped))
				}
				return nil
			},
		},
	)
	return cmd
}

// NewItemCommand manages the items of one list.
func NewItemCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "manage the items of a list",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls <list>",
			Short: "show the items of a list",
			Args:  exactArgs(1, "combo item ls <list>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.view(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					if a.jsonOut() {
						return a.writeJSON(l.Items)
					}
					ui.Panel(itemsLines(l))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <list> <value>...",
			Short: "add an item to a list",
			Args:  rangeArgs(2, -1, "combo item add <list> <value>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				value := strings.Join(args[1:], " ")
				var owner string
				var created model.Item
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					it, err := st.AddItem(l.ID, value)
					if err != nil {
						return err
					}
					owner, created = l.Name, *it
					return nil
				})
				if err != nil {
					return err
				}
				if a.jsonOut() {
					return a.writeJSON(created)
				}
				ui.OK(fmt.Sprintf("added %q to %s", created.Value, owner))
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <list> <item> <value>...",
			Short: "change an item's value",
			Args:  rangeArgs(3, -1, "combo item edit <list> <item> <value>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				value := strings.Join(args[2:], " ")
				var old string
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					it, err := l.FindItem(args[1])
					if err != nil {
						return err
					}
					old = it.Value
					return st.UpdateItem(l.ID, it.ID, value)
				})
				if err != nil {
					return err
				}
				ui.OK(fmt.Sprintf("changed %q to %q", old, strings.TrimSpace(value)))
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <list> <item>",
			Aliases: []string{"delete"},
			Short:   "remove an item from a list",
			Args:    exactArgs(2, "combo item rm <list> <item>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				var value string
				err := a.update(cmd.Context(), func(st *model.State) error {
					l, err := st.FindList(args[0])
					if err != nil {
						return err
					}
					it, err := l.FindItem(args[1])
					if err != nil {
						return err
					}
					value = it.Value
					return st.DeleteItem(l.ID, it.ID)
				})
				if err != nil {
					return err
				}
				ui.OK(fmt.Sprintf("removed %q", value))
				return nil
			},
		},
	)
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/config"
	"github.com/idilsaglam/combo/internal/ui"
)

// NewConfigCommand reads and edits the config file.
func NewConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "show or change settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "print the config and state file locations",
			Args:  exactArgs(0, "combo config path"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				if a.jsonOut() {
					return a.writeJSON(map[string]string{"config": a.configPath(), "state": a.statePath()})
				}
				fmt.Fprintln(a.opt.Stdout, a.configPath())
				fmt.Fprintln(a.opt.Stdout, a.statePath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "print the effective value of a setting",
			Args:  exactArgs(1, "combo config get <key>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.cfg.Get(args[0])
				if err != nil {
					return usageErr("%v", err)
				}
				fmt.Fprintln(a.opt.Stdout, v)
				return nil
			},
		},
		&cobra.Command{
			Use:     "set <key> <value>",
			Short:   "change a setting in the config file",
			Example: "  combo config set draw.max_attempts 50\n  combo config set storage.backend sqlite",
			Args:    exactArgs(2, "combo config set <key> <value>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := a.configPath()
				cfg, err := config.ReadFile(path)
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return usageErr("%v", err)
				}
				if err := cfg.SaveToFile(path); err != nil {
					return err
				}
				a.log.Debug("config updated")
				ui.OK(fmt.Sprintf("%s = %s", args[0], args[1]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "list every setting with its effective value",
			Args:  exactArgs(0, "combo config ls"),
			RunE: func(cmd *cobra.Command, _ []string) error {
				keys := config.ListKeys()
				if a.jsonOut() {
					out := make(map[string]string, len(keys))
					for _, k := range keys {
						out[k], _ = a.cfg.Get(k)
					}
					return a.writeJSON(out)
				}
				for _, k := range keys {
					v, _ := a.cfg.Get(k)
					fmt.Fprintf(a.opt.Stdout, "%s = %s\n", k, v)
				}
				return nil
			},
		},
	)
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/tui"
	"github.com/idilsaglam/combo/internal/ui"
)

// NewUICommand starts the interactive selector.
func NewUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ui",
		Aliases: []string{"tui", "i"},
		Short:   "interactive selector and list editor",
		Args:    exactArgs(0, "combo ui"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sel := a.selector(engine.Options{
				MaxAttempts:  a.cfg.Draw.MaxAttempts,
				AvoidHistory: a.cfg.Draw.AvoidHistory,
			}, a.cfg.Draw.Seed)
			saved, err := tui.Run(cmd.Context(), s, tui.Options{
				Selector:    sel,
				RevealDelay: a.cfg.RevealDelay(),
				Theme:       a.cfg.UI.Theme,
				Log:         a.log,
				Input:       a.opt.Stdin,
				Output:      a.opt.Stdout,
			})
			if err != nil {
				return err
			}
			if saved {
				ui.OK("saved")
			}
			return nil
		},
	}
}

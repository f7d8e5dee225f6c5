package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/store/codec"
	"github.com/idilsaglam/combo/internal/ui"
)

// NewImportCommand replaces the current state with a dump. "-" reads stdin.
func NewImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "replace all data with an exported state",
		Long: `Replace all lists, rules and history with the contents of a state dump.

Accepts the {"root": {...}} envelope written by export, a bare state
object, or a browser export whose lists are stored as a JSON string.`,
		Args: exactArgs(1, "combo import <file>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(a.opt.Stdin)
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			in, err := codec.Decode(raw)
			if err != nil {
				return usageErr("%s: %v", args[0], err)
			}
			err = a.update(cmd.Context(), func(st *model.State) error {
				*st = *in
				return nil
			})
			if err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("imported %d lists, %d rules", len(in.Lists), len(in.InvalidCombinations)))
			return nil
		},
	}
}

// NewExportCommand writes the state envelope to a file or stdout.
func NewExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "write all data as JSON",
		Args:  rangeArgs(0, 1, "combo export [file]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd.Context(), func(st *model.State) error {
				b, err := codec.Encode(st)
				if err != nil {
					return err
				}
				if len(args) == 0 || args[0] == "-" {
					_, err = a.opt.Stdout.Write(b)
					return err
				}
				if err := os.WriteFile(args[0], b, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", args[0], err)
				}
				ui.OK("exported to " + args[0])
				return nil
			})
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/combo/internal/engine"
	"github.com/idilsaglam/combo/internal/model"
	"github.com/idilsaglam/combo/internal/ui"
)

type drawFlags struct {
	attempts  int
	noHistory bool
	noRecord  bool
	seed      uint64
}

// NewDrawCommand draws one combination and records it in the history.
func NewDrawCommand(a *app) *cobra.Command {
	var f drawFlags
	cmd := &cobra.Command{
		Use:     "draw",
		Aliases: []string{"go", "roll"},
		Short:   "draw a random combination",
		Long: `Draw one item from every non-empty list.

Draws that hit an invalid combination are rejected and rolled again, up to
--attempts times. Combinations from the recent history are avoided when
possible.`,
		Args: exactArgs(0, "combo draw [--attempts N] [--no-history] [--no-record]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := engine.Options{
				MaxAttempts:  a.cfg.Draw.MaxAttempts,
				AvoidHistory: a.cfg.Draw.AvoidHistory && !f.noHistory,
			}
			if cmd.Flags().Changed("attempts") {
				opts.MaxAttempts = f.attempts
			}
			seed := a.cfg.Draw.Seed
			if cmd.Flags().Changed("seed") {
				seed = f.seed
			}
			sel := a.selector(opts, seed)

			var st *model.State
			var c model.Combination
			pick := func(s *model.State) (err error) {
				st = s
				c, err = sel.Pick(s)
				return err
			}
			var err error
			if f.noRecord {
				err = a.view(cmd.Context(), func(s *model.State) error {
					st = s
					var derr error
					c, derr = engine.Draw(s.Lists, s.InvalidCombinations, s.History, opts, engine.NewSource(seed))
					return derr
				})
			} else {
				err = a.update(cmd.Context(), pick)
			}
			if errors.Is(err, engine.ErrNoValidCombination) {
				ui.Fail(err.Error())
				ui.Hint(fmt.Sprintf("ignoring the rules, you would have got: %s", comboInline(sel.Fallback(st))))
				ui.Hint("Hint: loosen some rules (combo rule ls) or add items")
				return reported(1)
			}
			if err != nil {
				return err
			}

			if a.jsonOut() {
				return a.writeJSON(c)
			}
			if ui.IsTTY() {
				if err := reveal(cmd.Context(), a.cfg.RevealDelay()); err != nil {
					return err
				}
			}
			ui.Panel(comboLines(c, st.Lists))
			return nil
		},
	}
	cmd.Flags().IntVarP(&f.attempts, "attempts", "n", engine.InteractiveAttempts, "rolls before giving up")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "allow repeats of recent draws")
	cmd.Flags().BoolVar(&f.noRecord, "no-record", false, "do not add the draw to the history")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "replay a fixed random stream (0 = random)")
	return cmd
}

// reveal is the cosmetic pause before a result is shown.
func reveal(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewHistoryCommand shows or clears the recent draws.
func NewHistoryCommand(a *app) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: fmt.Sprintf("show the last %d draws", model.HistoryLimit),
		Args:  exactArgs(0, "combo history [--clear]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clearAll {
				if err := a.update(cmd.Context(), func(st *model.State) error {
					st.ClearHistory()
					return nil
				}); err != nil {
					return err
				}
				ui.OK("history cleared")
				return nil
			}
			return a.view(cmd.Context(), func(st *model.State) error {
				if a.jsonOut() {
					return a.writeJSON(st.History)
				}
				ui.Panel(historyLines(st))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "forget all recent draws")
	return cmd
}

type statsView struct {
	Lists     int  `json:"lists"`
	Items     int  `json:"items"`
	Rules     int  `json:"rules"`
	History   int  `json:"history"`
	Counted   bool `json:"counted"`
	Total     int  `json:"total"`
	Forbidden int  `json:"forbidden"`
	Allowed   int  `json:"allowed"`
}

// NewStatsCommand summarises the state and how much of the combination
// space the rules leave open.
func NewStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "counts and rule coverage",
		Args:  exactArgs(0, "combo stats"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.view(cmd.Context(), func(st *model.State) error {
				v := statsView{
					Lists:   len(st.Lists),
					Rules:   len(st.InvalidCombinations),
					History: len(st.History),
				}
				for _, l := range st.Lists {
					v.Items += len(l.Items)
				}
				cov, ok := engine.ComputeCoverage(st.Lists, st.InvalidCombinations, engine.DefaultCoverageLimit)
				v.Counted = ok
				v.Total, v.Forbidden, v.Allowed = cov.Total, cov.Forbidden, cov.Allowed()

				if a.jsonOut() {
					return a.writeJSON(v)
				}
				t := ui.Current()
				lines := []string{
					ui.C(t.Title, "combo"),
					fmt.Sprintf("Lists    %d", v.Lists),
					fmt.Sprintf("Items    %d", v.Items),
					fmt.Sprintf("Rules    %d", v.Rules),
					fmt.Sprintf("History  %d/%d", v.History, model.HistoryLimit),
				}
				switch {
				case !ok:
					lines = append(lines, ui.C(t.Muted, "too many combinations to count"))
				case v.Total > 0:
					lines = append(lines,
						fmt.Sprintf("Allowed  %d of %d", v.Allowed, v.Total),
						ui.Meter(v.Allowed, v.Total, 20))
				}
				ui.Panel(lines)
				if ok && v.Total > 0 && v.Allowed == 0 {
					ui.Hint("Hint: every combination is forbidden, draws will always fail")
				}
				return nil
			})
		},
	}
}

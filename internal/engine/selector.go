package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/idilsaglam/combo/internal/model"
)

// Selector draws against a State and records successful draws in its
// history. It is the only engine type that writes to the state.
type Selector struct {
	src  Source
	opts Options
	log  *zap.Logger
}

func NewSelector(src Source, opts Options, log *zap.Logger) *Selector {
	if src == nil {
		src = NewSource(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Selector{src: src, opts: opts, log: log}
}

// Pick draws a combination and pushes it onto st's history. On failure the
// history is left alone.
func (s *Selector) Pick(st *model.State) (model.Combination, error) {
	c, attempts, err := draw(st.Lists, st.InvalidCombinations, st.History, s.opts, s.src)
	if err != nil {
		if errors.Is(err, ErrNoValidCombination) {
			s.log.Warn("draw exhausted attempt budget",
				zap.Int("max_attempts", s.opts.MaxAttempts),
				zap.Int("rules", len(st.InvalidCombinations)))
		}
		return nil, err
	}
	s.log.Debug("drew combination",
		zap.Int("attempts", attempts),
		zap.Int("selections", len(c)),
		zap.Bool("repeat", InHistory(c, st.History)))
	st.PushHistory(c)
	return c, nil
}

// Fallback is an unconstrained roll, shown when Pick fails.
func (s *Selector) Fallback(st *model.State) model.Combination {
	return Roll(st.Lists, s.src)
}

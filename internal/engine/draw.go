package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/idilsaglam/combo/internal/model"
)

// Attempt budgets. Callers pick one explicitly.
const (
	InteractiveAttempts = 20
	UtilityAttempts     = 100
)

var (
	ErrNoValidCombination = errors.New("no valid combination found")
	ErrNothingToDraw      = errors.New("no list has any items")
	ErrBadAttempts        = errors.New("max attempts must be at least 1")
)

// DrawError is returned when every roll within the budget hit a rule.
type DrawError struct {
	Attempts int
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("%s within %d attempts", ErrNoValidCombination, e.Attempts)
}

func (e *DrawError) Unwrap() error { return ErrNoValidCombination }

// Source yields uniform floats in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type runtimeSource struct{}

func (runtimeSource) Float64() float64 { return rand.Float64() }

// NewSource returns the process-wide generator when seed is 0, otherwise a
// deterministic PCG stream.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return runtimeSource{}
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Options tune a draw.
type Options struct {
	MaxAttempts  int
	AvoidHistory bool // reroll combinations already in history, best effort
}

// Roll picks one item uniformly at random from every non-empty list.
// Empty lists contribute nothing.
func Roll(lists []model.List, src Source) model.Combination {
	c := make(model.Combination, 0, len(lists))
	for _, l := range lists {
		n := len(l.Items)
		if n == 0 {
			continue
		}
		i := int(src.Float64() * float64(n))
		if i >= n {
			i = n - 1
		}
		it := l.Items[i]
		c = append(c, model.Selection{ListID: l.ID, ItemID: it.ID, Value: it.Value})
	}
	return c
}

// Draw rolls until it finds a combination no rule matches. With
// AvoidHistory it also rerolls repeats of history, but a valid repeat is
// returned rather than failing once the budget is spent.
func Draw(lists []model.List, rules []model.InvalidCombination, history []model.Combination, opts Options, src Source) (model.Combination, error) {
	c, _, err := draw(lists, rules, history, opts, src)
	return c, err
}

func draw(lists []model.List, rules []model.InvalidCombination, history []model.Combination, opts Options, src Source) (model.Combination, int, error) {
	if opts.MaxAttempts < 1 {
		return nil, 0, ErrBadAttempts
	}
	if !drawable(lists) {
		return nil, 0, ErrNothingToDraw
	}

	var repeat model.Combination
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		c := Roll(lists, src)
		if IsInvalid(c, rules) {
			continue
		}
		if opts.AvoidHistory && InHistory(c, history) {
			if repeat == nil {
				repeat = c
			}
			continue
		}
		return c, attempt, nil
	}
	if repeat != nil {
		return repeat, opts.MaxAttempts, nil
	}
	return nil, opts.MaxAttempts, &DrawError{Attempts: opts.MaxAttempts}
}

func drawable(lists []model.List) bool {
	for _, l := range lists {
		if len(l.Items) > 0 {
			return true
		}
	}
	return false
}

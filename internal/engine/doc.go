// Package engine draws random combinations, one item per list, that avoid
// user-defined invalid combinations and, best effort, recent history.
//
// The draw is bounded random sampling: it rolls up to MaxAttempts times and
// reports ErrNoValidCombination when every roll hits a rule. It never
// searches the combination space exhaustively; Coverage does that
// separately, for reporting only.
package engine

// Package verify implements the server side of the anti-cheat handshake:
// re-run a claimed battle from its inputs and compare the outcome field
// by field. Any disagreement rejects the claim; there is no partial
// reconciliation.
package verify

import (
	"fmt"

	"fortress-arena/internal/sim"
)

// MismatchKind names which field diverged between claim and re-run.
type MismatchKind string

const (
	MismatchHash     MismatchKind = "hash_mismatch"
	MismatchWinner   MismatchKind = "winner_mismatch"
	MismatchDuration MismatchKind = "duration_mismatch"
	MismatchHP       MismatchKind = "hp_mismatch"
	MismatchDamage   MismatchKind = "damage_mismatch"
)

// Error describes a rejected claim. Side is only meaningful for the HP
// and damage kinds.
type Error struct {
	Kind    MismatchKind
	Side    sim.SideTag
	Claimed int64
	Actual  int64
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case MismatchHP, MismatchDamage:
		return fmt.Sprintf("%s (%s side): claimed %d, got %d", e.Kind, e.Side, e.Claimed, e.Actual)
	default:
		return fmt.Sprintf("%s: claimed %d, got %d", e.Kind, e.Claimed, e.Actual)
	}
}

// Claim bundles a battle's inputs with the result the client reported.
type Claim struct {
	Seed   uint32         `json:"seed"`
	Left   sim.BuildSpec  `json:"left"`
	Right  sim.BuildSpec  `json:"right"`
	Config sim.ArenaConfig `json:"config"`
	Result sim.Result     `json:"result"`
}

// Rerun replays the claim's inputs and compares the claimed result
// against the authoritative re-run. It returns the re-run result and the
// first divergence found, diagnostic fields first and the chain hash
// last so the hash check catches anything the summary fields miss.
func Rerun(c Claim) (sim.Result, error) {
	s, err := sim.New(c.Seed, c.Left, c.Right, c.Config)
	if err != nil {
		return sim.Result{}, fmt.Errorf("rebuild simulation: %w", err)
	}
	actual := s.Run()
	return actual, Compare(c.Result, actual)
}

// Compare checks the fields the protocol commits to: winner, duration,
// both final fortress HPs, both damage totals, and the chain hash.
func Compare(claimed, actual sim.Result) error {
	if claimed.Winner != actual.Winner {
		return &Error{Kind: MismatchWinner, Claimed: int64(claimed.Winner), Actual: int64(actual.Winner)}
	}
	if claimed.Duration != actual.Duration {
		return &Error{Kind: MismatchDuration, Claimed: int64(claimed.Duration), Actual: int64(actual.Duration)}
	}
	if claimed.Left.FinalHP != actual.Left.FinalHP {
		return &Error{Kind: MismatchHP, Side: sim.SideLeft, Claimed: int64(claimed.Left.FinalHP), Actual: int64(actual.Left.FinalHP)}
	}
	if claimed.Right.FinalHP != actual.Right.FinalHP {
		return &Error{Kind: MismatchHP, Side: sim.SideRight, Claimed: int64(claimed.Right.FinalHP), Actual: int64(actual.Right.FinalHP)}
	}
	if claimed.Left.TotalDamage != actual.Left.TotalDamage {
		return &Error{Kind: MismatchDamage, Side: sim.SideLeft, Claimed: int64(claimed.Left.TotalDamage), Actual: int64(actual.Left.TotalDamage)}
	}
	if claimed.Right.TotalDamage != actual.Right.TotalDamage {
		return &Error{Kind: MismatchDamage, Side: sim.SideRight, Claimed: int64(claimed.Right.TotalDamage), Actual: int64(actual.Right.TotalDamage)}
	}
	if claimed.Hash != actual.Hash {
		return &Error{Kind: MismatchHash, Claimed: int64(claimed.Hash), Actual: int64(actual.Hash)}
	}
	return nil
}

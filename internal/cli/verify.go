package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fortress-arena/internal/sim"
	"fortress-arena/internal/verify"
)

// verifyCmd re-runs a stored battle from its recorded inputs and checks
// the stored outcome against the authoritative re-run.
var verifyCmd = &cobra.Command{
	Use:   "verify <battle-id>",
	Short: "Re-run a stored battle and verify its recorded result",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad battle id %q", args[0])
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	seed, left, right, cfg, err := db.GetBattleInputs(id)
	if err != nil {
		return err
	}
	stored, err := db.GetBattle(id)
	if err != nil {
		return err
	}
	sides, err := db.GetSides(id)
	if err != nil {
		return err
	}
	if len(sides) != 2 {
		return fmt.Errorf("battle %d has %d sides", id, len(sides))
	}

	s, err := sim.New(seed, left, right, cfg)
	if err != nil {
		return fmt.Errorf("rebuild battle %d: %w", id, err)
	}
	actual := s.Run()

	claimed := actual // start from re-run shape, overlay stored fields
	claimed.Hash = stored.Hash
	claimed.Duration = stored.Duration
	claimed.Winner = parseWinner(stored.Winner)
	claimed.Left.FinalHP = sides[0].FinalHP
	claimed.Left.TotalDamage = sides[0].TotalDamage
	claimed.Right.FinalHP = sides[1].FinalHP
	claimed.Right.TotalDamage = sides[1].TotalDamage

	if err := verify.Compare(claimed, actual); err != nil {
		var verr *verify.Error
		if errors.As(err, &verr) {
			return fmt.Errorf("battle %d FAILED verification: %v", id, verr)
		}
		return err
	}

	fmt.Printf("battle %d verified: winner=%s duration=%d hash=%08x\n",
		id, actual.Winner, actual.Duration, actual.Hash)
	return nil
}

func parseWinner(s string) sim.WinnerTag {
	switch s {
	case "left":
		return sim.WinnerLeft
	case "right":
		return sim.WinnerRight
	default:
		return sim.WinnerNone
	}
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fortress-arena/internal/report"
	"fortress-arena/internal/sim"
)

// sweep command flags.
var (
	sweepFrom        uint32
	sweepTo          uint32
	sweepQuiet       bool
	sweepLeftClass   string
	sweepRightClass  string
	sweepLeftHeroes  string
	sweepRightHeroes string
	sweepLeftLevel   int32
	sweepRightLevel  int32
)

// sweepCmd runs the same matchup across a seed range and prints the
// outcome distribution. Useful for balance checks: identical builds
// should split wins roughly evenly across a wide sweep.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a matchup across a range of seeds",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Uint32Var(&sweepFrom, "from", 1, "first seed (non-zero)")
	sweepCmd.Flags().Uint32Var(&sweepTo, "to", 100, "last seed inclusive")
	sweepCmd.Flags().BoolVar(&sweepQuiet, "quiet", false, "print only the aggregate line")
	sweepCmd.Flags().StringVar(&sweepLeftClass, "left-class", "fire", "left fortress class")
	sweepCmd.Flags().StringVar(&sweepRightClass, "right-class", "fire", "right fortress class")
	sweepCmd.Flags().StringVar(&sweepLeftHeroes, "left-heroes", "storm,forge", "left hero ids")
	sweepCmd.Flags().StringVar(&sweepRightHeroes, "right-heroes", "storm,forge", "right hero ids")
	sweepCmd.Flags().Int32Var(&sweepLeftLevel, "left-level", 30, "left commander level")
	sweepCmd.Flags().Int32Var(&sweepRightLevel, "right-level", 30, "right commander level")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if sweepFrom == 0 || sweepTo < sweepFrom {
		return fmt.Errorf("bad seed range [%d, %d]", sweepFrom, sweepTo)
	}

	left := buildFromFlags("left", sweepLeftClass, sweepLeftHeroes, sweepLeftLevel)
	right := buildFromFlags("right", sweepRightClass, sweepRightHeroes, sweepRightLevel)

	rows := make([]report.SweepRow, 0, sweepTo-sweepFrom+1)
	for seed := sweepFrom; seed <= sweepTo; seed++ {
		s, err := sim.New(seed, left, right, sim.DefaultArenaConfig())
		if err != nil {
			return err
		}
		res := s.Run()
		rows = append(rows, report.SweepRow{
			Seed:     seed,
			Winner:   res.Winner.String(),
			Reason:   res.WinReason.String(),
			Duration: res.Duration,
			Hash:     res.Hash,
		})
	}

	if sweepQuiet {
		wins := map[string]int{}
		for _, r := range rows {
			wins[r.Winner]++
		}
		fmt.Printf("%d seeds: left %d, right %d, none %d\n", len(rows), wins["left"], wins["right"], wins["none"])
		return nil
	}
	report.PrintSweepTable(os.Stdout, rows)
	return nil
}

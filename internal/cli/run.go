package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fortress-arena/internal/report"
	"fortress-arena/internal/sim"
	"fortress-arena/internal/store"
)

// run command flags.
var (
	runSeed       uint32
	runLeftClass  string
	runRightClass string
	runLeftHeroes string
	runRightHeroes string
	runLeftLevel  int32
	runRightLevel int32
	runStore      bool
)

// runCmd simulates one 1v1 battle and prints the summary table.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one battle and print the result",
	Long: `Simulate a single 1v1 fortress battle from the given builds.

Example:
  arenactl run --seed 12345 \
    --left-heroes storm,forge --left-class fire --left-level 30 \
    --right-heroes titan,scout --right-class ice --right-level 30 --save`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Uint32Var(&runSeed, "seed", 1, "battle seed (non-zero)")
	runCmd.Flags().StringVar(&runLeftClass, "left-class", "fire", "left fortress class")
	runCmd.Flags().StringVar(&runRightClass, "right-class", "ice", "right fortress class")
	runCmd.Flags().StringVar(&runLeftHeroes, "left-heroes", "storm,forge", "comma-separated left hero ids")
	runCmd.Flags().StringVar(&runRightHeroes, "right-heroes", "storm,forge", "comma-separated right hero ids")
	runCmd.Flags().Int32Var(&runLeftLevel, "left-level", 30, "left commander level")
	runCmd.Flags().Int32Var(&runRightLevel, "right-level", 30, "right commander level")
	runCmd.Flags().BoolVar(&runStore, "save", false, "store the result in the battle database")
}

func buildFromFlags(owner, class, heroes string, level int32) sim.BuildSpec {
	return sim.BuildSpec{
		OwnerID:        owner,
		OwnerName:      owner,
		FortressClass:  class,
		CommanderLevel: level,
		HeroIDs:        strings.Split(heroes, ","),
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	left := buildFromFlags("left", runLeftClass, runLeftHeroes, runLeftLevel)
	right := buildFromFlags("right", runRightClass, runRightHeroes, runRightLevel)

	s, err := sim.New(runSeed, left, right, sim.DefaultArenaConfig())
	if err != nil {
		return err
	}
	res := s.Run()

	report.PrintBattleSummary(os.Stdout, runSeed, res)

	if runStore {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveBattle(runSeed, left, right, sim.DefaultArenaConfig(), res)
		if err != nil {
			return fmt.Errorf("store battle: %w", err)
		}
		fmt.Printf("stored as battle %d\n", id)
	}
	return nil
}

func openDB() (*store.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.Open(dbPath)
}

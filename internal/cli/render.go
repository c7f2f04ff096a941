package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fortress-arena/internal/render"
)

// render command flags.
var (
	renderOutDir string
	renderEvery  int32
)

// renderCmd re-runs a stored battle and writes PNG frames of the arena.
var renderCmd = &cobra.Command{
	Use:   "render <battle-id>",
	Short: "Render a stored battle's replay to PNG frames",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderOutDir, "out", "frames", "output directory for PNG frames")
	renderCmd.Flags().Int32Var(&renderEvery, "every", 15, "render one frame per N ticks")
}

func runRender(cmd *cobra.Command, args []string) error {
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

	opts := render.DefaultOptions(renderOutDir)
	if renderEvery > 0 {
		opts.EveryTick = renderEvery
	}

	frames, err := render.RenderBattle(seed, left, right, cfg, opts)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", frames, renderOutDir)
	return nil
}

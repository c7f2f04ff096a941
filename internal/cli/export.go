package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// exportOut is the output file path, "-" for stdout.
var exportOut string

// exportCmd dumps a stored battle (summary, sides, replay log) as JSON.
var exportCmd = &cobra.Command{
	Use:   "export <battle-id>",
	Short: "Export a stored battle as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file (- for stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad battle id %q", args[0])
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	battle, err := db.GetBattle(id)
	if err != nil {
		return err
	}
	sides, err := db.GetSides(id)
	if err != nil {
		return err
	}
	events, err := db.GetEvents(id)
	if err != nil {
		return err
	}

	doc := map[string]interface{}{
		"battle": battle,
		"sides":  sides,
		"events": events,
	}

	out := os.Stdout
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

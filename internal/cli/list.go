package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// listLimit caps the number of rows printed, set via --limit.
var listLimit int

// listCmd prints recent stored battles.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored battles",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum battles to list")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ListBattles(listLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no battles stored")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("ID", "SEED", "WINNER", "REASON", "DURATION", "HASH", "MVP", "CREATED")
	for _, b := range rows {
		table.Append(
			strconv.FormatInt(b.ID, 10),
			strconv.FormatUint(uint64(b.Seed), 10),
			b.Winner,
			b.WinReason,
			strconv.Itoa(int(b.Duration)),
			fmt.Sprintf("%08x", b.Hash),
			b.MVPHero,
			b.CreatedAt,
		)
	}
	table.Render()
	return nil
}

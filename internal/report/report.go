// Package report formats battle results and seed sweeps as terminal
// tables using tablewriter.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"fortress-arena/internal/guild"
	"fortress-arena/internal/sim"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintBattleSummary writes the headline and per-side table for a 1v1
// battle result.
func PrintBattleSummary(w io.Writer, seed uint32, res sim.Result) {
	headline := color.New(color.Bold)
	headline.Fprintf(w, "\nSeed %d  |  Winner: %s (%s)  |  Duration: %d ticks  |  Hash: %08x\n\n",
		seed, res.Winner, res.WinReason, res.Duration, res.Hash)

	table := newTable(w)
	table.Header("SIDE", "OWNER", "FORTRESS_HP", "DMG_DEALT", "DMG_TAKEN", "KILLS", "LOSSES", "HEROES_LEFT")
	for _, row := range []struct {
		side string
		sr   sim.SideResult
	}{{"left", res.Left}, {"right", res.Right}} {
		table.Append(
			row.side,
			row.sr.OwnerName,
			fmt.Sprintf("%d/%d", row.sr.FinalHP, row.sr.MaxHP),
			strconv.Itoa(int(row.sr.TotalDamage)),
			strconv.Itoa(int(row.sr.DamageReceived)),
			strconv.Itoa(int(row.sr.HeroesKilled)),
			strconv.Itoa(int(row.sr.HeroesLost)),
			strconv.Itoa(int(row.sr.LiveHeroes)),
		)
	}
	table.Render()

	if res.MVP.HeroID != "" {
		fmt.Fprintf(w, "\nMVP: %s (%s side, %d damage)\n", res.MVP.HeroID, res.MVP.Side, res.MVP.Damage)
	}
	fmt.Fprintf(w, "Replay events: %d\n\n", len(res.Events))
}

// PrintGuildSummary writes the rollup for a 5v5 guild battle.
func PrintGuildSummary(w io.Writer, seed uint32, rep guild.Report) {
	headline := color.New(color.Bold)
	headline.Fprintf(w, "\nSeed %d  |  Winner: %s  |  Duration: %d ticks  |  Hash: %08x\n\n",
		seed, rep.Winner, rep.Duration, rep.Hash)

	table := newTable(w)
	table.Header("TEAM", "SURVIVORS", "REMAINING_HP", "DMG_DEALT")
	for _, row := range []struct {
		team string
		tr   guild.TeamReport
	}{
		{"attackers", rep.Attackers},
		{"defenders", rep.Defenders},
	} {
		table.Append(
			row.team,
			strconv.Itoa(row.tr.Survivors),
			strconv.FormatInt(row.tr.RemainingHP, 10),
			strconv.Itoa(int(row.tr.TotalDamage)),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\nMVP: %s/%s (%d damage)  |  kills: %d  |  key moments: %d\n\n",
		rep.MVP.OwnerID, rep.MVP.HeroID, rep.MVP.Damage, len(rep.KillLog), len(rep.Moments))
}

// SweepRow is one seed's outcome in a sweep.
type SweepRow struct {
	Seed     uint32
	Winner   string
	Reason   string
	Duration int32
	Hash     uint32
}

// PrintSweepTable lists per-seed outcomes and the aggregate win split.
func PrintSweepTable(w io.Writer, rows []SweepRow) {
	table := newTable(w)
	table.Header("SEED", "WINNER", "REASON", "DURATION", "HASH")
	wins := map[string]int{}
	for _, r := range rows {
		wins[r.Winner]++
		table.Append(
			strconv.FormatUint(uint64(r.Seed), 10),
			r.Winner,
			r.Reason,
			strconv.Itoa(int(r.Duration)),
			fmt.Sprintf("%08x", r.Hash),
		)
	}
	table.Render()

	fmt.Fprintf(w, "\n%d seeds: left %d, right %d, none %d\n\n",
		len(rows), wins["left"], wins["right"], wins["none"]+wins["draw"])
}

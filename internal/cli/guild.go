package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fortress-arena/internal/guild"
	"fortress-arena/internal/report"
)

// guild command flags.
var (
	guildSeed     uint32
	guildAttTeam  string
	guildDefTeam  string
	guildAttPower int32
	guildDefPower int32
)

// guildCmd simulates one 5v5 guild-arena battle.
var guildCmd = &cobra.Command{
	Use:   "guild",
	Short: "Simulate a 5v5 guild-arena battle",
	Long: `Simulate a 5v5 guild battle between two rosters.

Example:
  arenactl guild --seed 7 \
    --attackers storm,forge,titan,vanguard,scout --attacker-power 1200 \
    --defenders storm,forge,titan,vanguard,scout --defender-power 1000`,
	RunE: runGuild,
}

func init() {
	guildCmd.Flags().Uint32Var(&guildSeed, "seed", 1, "battle seed (non-zero)")
	guildCmd.Flags().StringVar(&guildAttTeam, "attackers", "storm,forge,titan,vanguard,scout", "attacker hero ids")
	guildCmd.Flags().StringVar(&guildDefTeam, "defenders", "storm,forge,titan,vanguard,scout", "defender hero ids")
	guildCmd.Flags().Int32Var(&guildAttPower, "attacker-power", 1000, "attacker power score")
	guildCmd.Flags().Int32Var(&guildDefPower, "defender-power", 1000, "defender power score")
}

func rosterFromFlags(owner, heroes string, power int32) []guild.Combatant {
	ids := strings.Split(heroes, ",")
	out := make([]guild.Combatant, 0, len(ids))
	for _, id := range ids {
		out = append(out, guild.Combatant{OwnerID: owner, HeroID: id, Tier: 1, Power: power})
	}
	return out
}

func runGuild(cmd *cobra.Command, args []string) error {
	b, err := guild.New(guildSeed,
		rosterFromFlags("attackers", guildAttTeam, guildAttPower),
		rosterFromFlags("defenders", guildDefTeam, guildDefPower))
	if err != nil {
		return err
	}
	rep := b.Run()
	report.PrintGuildSummary(os.Stdout, guildSeed, rep)

	for _, k := range rep.KillLog {
		fmt.Printf("  tick %5d  %s/%s killed %s/%s\n", k.Tick, k.KillerOwner, k.KillerHero, k.VictimOwner, k.VictimHero)
	}
	return nil
}

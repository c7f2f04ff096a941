package sim

// SideResult is one side's rollup in the battle result.
type SideResult struct {
	OwnerID        string `json:"ownerId"`
	OwnerName      string `json:"ownerName"`
	FinalHP        int32  `json:"finalHp"`
	MaxHP          int32  `json:"maxHp"`
	TotalDamage    int32  `json:"totalDamage"`
	DamageReceived int32  `json:"damageReceived"`
	HeroesKilled   int32  `json:"heroesKilled"`
	HeroesLost     int32  `json:"heroesLost"`
	LiveHeroes     int32  `json:"liveHeroes"`
}

// MVP is the battle's most valuable hero: the winning side's highest
// damage dealer, with a stable lowest-index tie-break.
type MVP struct {
	Side   SideTag `json:"side"`
	HeroID string  `json:"heroId"`
	Damage int32   `json:"damage"`
}

// Result is the complete battle outcome: summary, per-side rollups, the
// chained run hash and the full replay event log.
type Result struct {
	Winner    WinnerTag `json:"winner"`
	WinReason WinReason `json:"winReason"`
	Duration  int32     `json:"duration"`
	Hash      uint32    `json:"hash"`

	Left  SideResult `json:"left"`
	Right SideResult `json:"right"`

	MVP MVP `json:"mvp"`

	Events []ReplayEvent `json:"events"`
}

// buildResult assembles the result from terminated state.
func (s *Simulation) buildResult() Result {
	res := Result{
		Winner:    s.state.Winner,
		WinReason: s.state.WinReason,
		Duration:  s.state.Tick,
		Hash:      s.finalHash,
		Left:      sideResult(&s.state.Left),
		Right:     sideResult(&s.state.Right),
		Events:    s.rec.Events(),
	}
	res.MVP = s.selectMVP()
	return res
}

func sideResult(side *Side) SideResult {
	return SideResult{
		OwnerID:        side.OwnerID,
		OwnerName:      side.OwnerName,
		FinalHP:        side.Fortress.HP,
		MaxHP:          side.Fortress.MaxHP,
		TotalDamage:    side.Stats.DamageDealt,
		DamageReceived: side.Stats.DamageReceived,
		HeroesKilled:   side.Stats.HeroesKilled,
		HeroesLost:     side.Stats.HeroesLost,
		LiveHeroes:     side.LiveHeroes(),
	}
}

// selectMVP scans the winning side's heroes for the top damage dealer.
// A drawn battle takes the top dealer across both sides, left first so
// the choice stays stable.
func (s *Simulation) selectMVP() MVP {
	tags := [2]SideTag{SideLeft, SideRight}
	switch s.state.Winner {
	case WinnerLeft:
		tags = [2]SideTag{SideLeft, SideLeft}
	case WinnerRight:
		tags = [2]SideTag{SideRight, SideRight}
	}

	best := MVP{Damage: -1}
	for _, tag := range tags[:pickCount(s.state.Winner)] {
		side := s.state.SideFor(tag)
		for i := range side.Heroes {
			h := &side.Heroes[i]
			if h.DamageDealt > best.Damage {
				best = MVP{Side: tag, HeroID: h.DefID, Damage: h.DamageDealt}
			}
		}
	}
	if best.Damage < 0 {
		best.Damage = 0
	}
	return best
}

func pickCount(w WinnerTag) int {
	if w == WinnerNone {
		return 2
	}
	return 1
}

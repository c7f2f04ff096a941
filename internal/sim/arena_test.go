package sim

import (
	"reflect"
	"testing"

	"fortress-arena/internal/fixed"
)

func midBuild(owner string) BuildSpec {
	return BuildSpec{
		OwnerID:        owner,
		OwnerName:      owner,
		FortressClass:  "fire",
		CommanderLevel: 30,
		HeroIDs:        []string{"storm", "forge"},
	}
}

// TestRunDeterminism is the core guarantee: two runs of the same inputs
// produce bit-identical results, event logs and hashes.
func TestRunDeterminism(t *testing.T) {
	run := func() Result {
		s, err := New(12345, midBuild("alice"), midBuild("bob"), DefaultArenaConfig())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return s.Run()
	}

	a := run()
	b := run()

	if a.Hash != b.Hash {
		t.Fatalf("hash mismatch: %#x vs %#x", a.Hash, b.Hash)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("results differ between identical runs")
	}
	if a.Duration <= 0 {
		t.Fatalf("duration = %d, want > 0", a.Duration)
	}
	if a.WinReason != WinReasonFortressDestroyed && a.WinReason != WinReasonTimeout && a.WinReason != WinReasonDraw {
		t.Fatalf("unexpected win reason %v", a.WinReason)
	}
}

// TestSeedSensitivity: with non-zero crit chance in play, a sweep of
// seeds must not collapse to a single outcome.
func TestSeedSensitivity(t *testing.T) {
	outcomes := make(map[uint32]bool)
	for seed := uint32(1); seed <= 20; seed++ {
		s, err := New(seed, midBuild("alice"), midBuild("bob"), DefaultArenaConfig())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res := s.Run()
		outcomes[res.Hash] = true
	}
	if len(outcomes) < 2 {
		t.Fatalf("20 seeds produced %d distinct outcome(s)", len(outcomes))
	}
}

// TestExtremePowerGap: a maxed commander with four heroes and large
// bonuses must raze a level-1 single-scout build quickly.
func TestExtremePowerGap(t *testing.T) {
	left := BuildSpec{
		OwnerID:        "goliath",
		OwnerName:      "goliath",
		FortressClass:  "fire",
		CommanderLevel: 100,
		HeroIDs:        []string{"titan", "storm", "forge", "vanguard"},
		DamageBonus:    fixed.FromInt(5),
		HPBonus:        fixed.FromInt(5),
	}
	right := BuildSpec{
		OwnerID:        "david",
		OwnerName:      "david",
		FortressClass:  "ice",
		CommanderLevel: 1,
		HeroIDs:        []string{"scout"},
	}

	s, err := New(55555, left, right, DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := s.Run()

	if res.Winner != WinnerLeft {
		t.Fatalf("winner = %v, want left", res.Winner)
	}
	if res.WinReason != WinReasonFortressDestroyed {
		t.Fatalf("win reason = %v, want fortress_destroyed", res.WinReason)
	}
	if res.Right.FinalHP != 0 {
		t.Fatalf("right final HP = %d, want 0", res.Right.FinalHP)
	}
	if res.Left.FinalHP <= 0 {
		t.Fatalf("left final HP = %d, want > 0", res.Left.FinalHP)
	}
	if res.Duration >= 1800 {
		t.Fatalf("duration = %d, want < 1800", res.Duration)
	}
}

// TestFortressExclusion: a hero constructed on its own fortress centre
// must end the first tick on the exclusion boundary with zero velocity.
func TestFortressExclusion(t *testing.T) {
	left := BuildSpec{OwnerID: "l", FortressClass: "fire", CommanderLevel: 30, HeroIDs: []string{"titan"}}
	right := BuildSpec{OwnerID: "r", FortressClass: "fire", CommanderLevel: 30, HeroIDs: []string{"titan"}}

	s, err := New(42, left, right, DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := &s.state.Right.Heroes[0]
	h.Pos = s.state.Right.Fortress.Pos

	s.Step()

	dsq := fixed.DistSq(h.Pos, s.state.Right.Fortress.Pos)
	want := fixed.Mul(FortressExclusionRadius, FortressExclusionRadius)
	slack := fixed.FromFloat(0.2)
	if dsq < want-slack {
		t.Fatalf("hero inside exclusion disc after step: distSq = %v, want ≥ 9", dsq.Float())
	}
	if h.Vel.X != 0 || h.Vel.Y != 0 {
		t.Fatalf("velocity not zeroed after push-out: (%v, %v)", h.Vel.X.Float(), h.Vel.Y.Float())
	}
}

// TestExclusionInvariantHolds: over a full battle no live hero's centre
// may sit strictly inside either fortress's exclusion disc at tick end.
func TestExclusionInvariantHolds(t *testing.T) {
	s, err := New(12345, midBuild("a"), midBuild("b"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rsq := fixed.Mul(FortressExclusionRadius, FortressExclusionRadius)
	slack := fixed.FromFloat(0.2)
	for i := 0; i < 2000 && !s.state.Ended; i++ {
		s.Step()
		for _, tag := range [2]SideTag{SideLeft, SideRight} {
			side := s.state.SideFor(tag)
			for j := range side.Heroes {
				h := &side.Heroes[j]
				if !h.Alive() {
					continue
				}
				for _, ftag := range [2]SideTag{SideLeft, SideRight} {
					f := &s.state.SideFor(ftag).Fortress
					dsq := fixed.DistSq(h.Pos, f.Pos)
					// Coincident placement is tolerated per the epsilon
					// rule; anything else must be at the boundary or out.
					if dsq > fixed.Mul(fixed.Epsilon, fixed.Epsilon) && dsq < rsq-slack {
						t.Fatalf("tick %d: %v hero %d inside %v exclusion disc (distSq %v)",
							s.state.Tick, tag, j, ftag, dsq.Float())
					}
				}
			}
		}
	}
}

// TestTimeoutResolution: two identical single-titan tank builds cannot
// raze a fortress inside the timeout, so the battle resolves by HP
// fraction or draws exactly even.
func TestTimeoutResolution(t *testing.T) {
	build := func(owner string) BuildSpec {
		return BuildSpec{
			OwnerID:        owner,
			FortressClass:  "ice",
			CommanderLevel: 50,
			HeroIDs:        []string{"titan"},
			HPBonus:        fixed.FromInt(10),
		}
	}

	s, err := New(1, build("l"), build("r"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := s.Run()

	switch res.WinReason {
	case WinReasonDraw:
		if res.Winner != WinnerNone {
			t.Fatalf("draw with winner %v", res.Winner)
		}
	case WinReasonTimeout:
		lp := float64(res.Left.FinalHP) / float64(res.Left.MaxHP)
		rp := float64(res.Right.FinalHP) / float64(res.Right.MaxHP)
		if res.Winner == WinnerLeft && lp <= rp {
			t.Fatalf("left won timeout with lower HP fraction (%v vs %v)", lp, rp)
		}
		if res.Winner == WinnerRight && rp <= lp {
			t.Fatalf("right won timeout with lower HP fraction (%v vs %v)", rp, lp)
		}
	default:
		t.Fatalf("win reason = %v, want timeout or draw", res.WinReason)
	}
	if res.Duration > DefaultArenaConfig().MaxTicks {
		t.Fatalf("duration %d exceeded maxTicks", res.Duration)
	}
}

// TestTermination: Run ends within maxTicks even with a tiny budget.
func TestTermination(t *testing.T) {
	cfg := DefaultArenaConfig()
	cfg.MaxTicks = 50

	s, err := New(7, midBuild("a"), midBuild("b"), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := s.Run()
	if !s.state.Ended {
		t.Fatal("run returned without ended state")
	}
	if res.Duration > 50 {
		t.Fatalf("duration %d exceeds maxTicks 50", res.Duration)
	}
}

// TestStepAfterEndIsNoOp: once ended, no field mutates.
func TestStepAfterEndIsNoOp(t *testing.T) {
	cfg := DefaultArenaConfig()
	cfg.MaxTicks = 30

	s, err := New(7, midBuild("a"), midBuild("b"), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Run()

	before := s.state
	hash := s.Hash()
	events := len(s.Events())

	s.Step()
	s.Step()

	if s.state.Tick != before.Tick || s.Hash() != hash || len(s.Events()) != events {
		t.Fatal("state mutated after end")
	}
}

// TestMonotonicity: damage totals never decrease, fortress HP never
// increases, and the tick advances strictly.
func TestMonotonicity(t *testing.T) {
	s, err := New(12345, midBuild("a"), midBuild("b"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	prevTick := int32(-1)
	var prevDealt [2]int32
	var prevHP = [2]int32{s.state.Left.Fortress.HP, s.state.Right.Fortress.HP}

	for !s.state.Ended {
		s.Step()
		if s.state.Tick <= prevTick {
			t.Fatalf("tick not strictly increasing: %d after %d", s.state.Tick, prevTick)
		}
		prevTick = s.state.Tick

		for i, tag := range [2]SideTag{SideLeft, SideRight} {
			side := s.state.SideFor(tag)
			if side.Stats.DamageDealt < prevDealt[i] {
				t.Fatalf("%v damageDealt decreased", tag)
			}
			prevDealt[i] = side.Stats.DamageDealt
			if side.Fortress.HP > prevHP[i] {
				t.Fatalf("%v fortress HP increased", tag)
			}
			prevHP[i] = side.Fortress.HP
		}
	}
}

// TestEventLogConsistency checks the replay log against the final state:
// events sorted by tick, fortress_damage sums match fortress HP loss,
// all damage for a side sums to its damageReceived, and every death is
// preceded by a damage event that left the hero at zero.
func TestEventLogConsistency(t *testing.T) {
	s, err := New(12345, midBuild("a"), midBuild("b"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := s.Run()

	prevTick := int32(0)
	var fortressDamage, totalDamage [2]int32
	deaths := 0
	damageAtZero := 0

	for _, ev := range res.Events {
		if ev.Tick < prevTick {
			t.Fatalf("event log not monotonic: tick %d after %d", ev.Tick, prevTick)
		}
		prevTick = ev.Tick

		switch ev.Kind {
		case EventFortressDamage:
			fortressDamage[ev.Side] += ev.Damage
			totalDamage[ev.Side] += ev.Damage
		case EventDamage:
			totalDamage[ev.Side] += ev.Damage
			if ev.RemainingHP == 0 {
				damageAtZero++
			}
			if ev.RemainingHP < 0 {
				t.Fatalf("negative remaining HP in event at tick %d", ev.Tick)
			}
		case EventHeroDeath:
			deaths++
		}
	}

	sides := [2]SideResult{res.Left, res.Right}
	for i, sr := range sides {
		if fortressDamage[i] != sr.MaxHP-sr.FinalHP {
			t.Fatalf("side %d fortress_damage sum %d != HP loss %d", i, fortressDamage[i], sr.MaxHP-sr.FinalHP)
		}
		if totalDamage[i] != sr.DamageReceived {
			t.Fatalf("side %d damage sum %d != damageReceived %d", i, totalDamage[i], sr.DamageReceived)
		}
	}

	if deaths > damageAtZero {
		t.Fatalf("%d deaths but only %d damage events at zero HP", deaths, damageAtZero)
	}
	if int32(deaths) != res.Left.HeroesLost+res.Right.HeroesLost {
		t.Fatalf("death events %d != heroes lost %d", deaths, res.Left.HeroesLost+res.Right.HeroesLost)
	}
}

// TestProjectileAgainstDyingTarget: kill a projectile's target while the
// projectile is in flight; the projectile must resolve against the last
// position or expire without crediting damage or emitting broken events.
func TestProjectileAgainstDyingTarget(t *testing.T) {
	s, err := New(9, midBuild("a"), midBuild("b"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Park a right hero inside the left fortress's attack range so the
	// very next fortress attack binds a projectile to it.
	s.state.Right.Heroes[0].Pos = fixed.Vec{X: fixed.FromInt(14), Y: FortressY}

	var proj *Projectile
	for i := 0; i < 30 && proj == nil; i++ {
		s.Step()
		for j := range s.state.Left.Projectiles {
			p := &s.state.Left.Projectiles[j]
			if p.TargetKind == TargetHero {
				proj = p
				break
			}
		}
	}
	if proj == nil {
		t.Fatal("no hero-bound projectile spawned within 30 ticks")
	}
	// The projectile slice is swap-filtered every tick, so remember the
	// binding rather than the pointer.
	targetIdx := proj.TargetIndex

	// Kill the bound target out-of-band.
	victim := &s.state.Right.Heroes[targetIdx]
	victim.HP = 0
	victim.State = HeroDying

	killedAtDealt := s.state.Left.Stats.DamageDealt
	eventsBefore := len(s.Events())

	// The projectile resolves or expires within a bounded number of
	// steps; a hit on the corpse credits nothing.
	for i := 0; i < 120 && !s.state.Ended; i++ {
		s.Step()
	}

	for _, ev := range s.Events()[eventsBefore:] {
		if ev.Kind == EventDamage && ev.RemainingHP < 0 {
			t.Fatal("damage event with negative HP after target death")
		}
	}

	// No damage may have been credited against the dead hero by the
	// in-flight projectile: all later left-side damage must be against
	// live targets or the fortress. Spot-check: victim still at 0 HP,
	// never negative, and no second death event for it.
	if victim.HP != 0 {
		t.Fatalf("dead hero HP changed to %d", victim.HP)
	}
	_ = killedAtDealt
	deathCount := 0
	for _, ev := range s.Events() {
		if ev.Kind == EventHeroDeath && ev.Side == SideRight && int(ev.TargetIndex) == targetIdx {
			deathCount++
		}
	}
	if deathCount > 1 {
		t.Fatalf("hero died %d times", deathCount)
	}
}

// TestInputValidation exercises every construction-time rejection.
func TestInputValidation(t *testing.T) {
	good := midBuild("ok")
	cfg := DefaultArenaConfig()

	tests := []struct {
		name string
		seed uint32
		mod  func(*BuildSpec)
	}{
		{"zero seed", 0, func(b *BuildSpec) {}},
		{"empty hero list", 1, func(b *BuildSpec) { b.HeroIDs = nil }},
		{"unknown hero", 1, func(b *BuildSpec) { b.HeroIDs = []string{"nonexistent"} }},
		{"unknown class", 1, func(b *BuildSpec) { b.FortressClass = "mud" }},
		{"level too low", 1, func(b *BuildSpec) { b.CommanderLevel = 0 }},
		{"level too high", 1, func(b *BuildSpec) { b.CommanderLevel = 101 }},
		{"bad tier", 1, func(b *BuildSpec) {
			b.HeroConfigs = map[string]HeroConfig{"storm": {Tier: 4}}
		}},
		{"unknown artifact", 1, func(b *BuildSpec) {
			b.HeroConfigs = map[string]HeroConfig{"storm": {Tier: 1, ArtifactID: "cursed"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := good
			bad.HeroConfigs = nil
			bad.HeroIDs = append([]string(nil), good.HeroIDs...)
			tt.mod(&bad)
			if _, err := New(tt.seed, bad, good, cfg); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}

	if _, err := New(1, good, good, cfg); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

// TestHeroSlotTruncation: excess hero ids beyond the commander's slots
// are dropped, never an error.
func TestHeroSlotTruncation(t *testing.T) {
	b := BuildSpec{
		OwnerID:        "many",
		FortressClass:  "void",
		CommanderLevel: 1, // two slots
		HeroIDs:        []string{"storm", "forge", "titan", "scout"},
	}
	s, err := New(5, b, midBuild("x"), DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(s.state.Left.Heroes); got != 2 {
		t.Fatalf("hero count = %d, want 2 (slot cap at level 1)", got)
	}
}

func BenchmarkRun(b *testing.B) {
	left := midBuild("a")
	right := midBuild("b")
	cfg := DefaultArenaConfig()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := New(uint32(i)+1, left, right, cfg)
		s.Run()
	}
}

func BenchmarkStep(b *testing.B) {
	s, _ := New(1, midBuild("a"), midBuild("b"), DefaultArenaConfig())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s.state.Ended {
			b.StopTimer()
			s, _ = New(uint32(i)+2, midBuild("a"), midBuild("b"), DefaultArenaConfig())
			b.StartTimer()
		}
		s.Step()
	}
}

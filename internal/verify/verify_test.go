package verify

import (
	"errors"
	"testing"

	"fortress-arena/internal/sim"
)

func build(owner string) sim.BuildSpec {
	return sim.BuildSpec{
		OwnerID:        owner,
		OwnerName:      owner,
		FortressClass:  "lightning",
		CommanderLevel: 40,
		HeroIDs:        []string{"storm", "vanguard"},
	}
}

func honestClaim(t *testing.T, seed uint32) Claim {
	t.Helper()
	s, err := sim.New(seed, build("client"), build("rival"), sim.DefaultArenaConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return Claim{
		Seed:   seed,
		Left:   build("client"),
		Right:  build("rival"),
		Config: sim.DefaultArenaConfig(),
		Result: s.Run(),
	}
}

func TestHonestClaimVerifies(t *testing.T) {
	c := honestClaim(t, 2024)
	if _, err := Rerun(c); err != nil {
		t.Fatalf("honest claim rejected: %v", err)
	}
}

func TestTamperedClaimsRejected(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*sim.Result)
		want MismatchKind
	}{
		{"forged winner", func(r *sim.Result) {
			if r.Winner == sim.WinnerLeft {
				r.Winner = sim.WinnerRight
			} else {
				r.Winner = sim.WinnerLeft
			}
		}, MismatchWinner},
		{"forged duration", func(r *sim.Result) { r.Duration++ }, MismatchDuration},
		{"forged left hp", func(r *sim.Result) { r.Left.FinalHP += 100 }, MismatchHP},
		{"forged right damage", func(r *sim.Result) { r.Right.TotalDamage -= 5 }, MismatchDamage},
		{"forged hash", func(r *sim.Result) { r.Hash ^= 1 }, MismatchHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := honestClaim(t, 2024)
			tt.mod(&c.Result)
			_, err := Rerun(c)
			if err == nil {
				t.Fatal("tampered claim accepted")
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if verr.Kind != tt.want {
				t.Fatalf("mismatch kind = %s, want %s", verr.Kind, tt.want)
			}
		})
	}
}

func TestRerunRejectsBadInputs(t *testing.T) {
	c := honestClaim(t, 2024)
	c.Seed = 0
	if _, err := Rerun(c); err == nil {
		t.Fatal("zero-seed claim accepted")
	}
}

func TestSideTaggedMismatch(t *testing.T) {
	c := honestClaim(t, 77)
	c.Result.Right.FinalHP++
	_, err := Rerun(c)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if verr.Kind != MismatchHP || verr.Side != sim.SideRight {
		t.Fatalf("got %s side %s, want hp_mismatch on right", verr.Kind, verr.Side)
	}
}

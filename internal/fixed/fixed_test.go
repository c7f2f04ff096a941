package fixed

import "testing"

// TestMulTruncation verifies the 64-bit product shift behaves the same for
// positive and negative operands as the documented portable rule.
func TestMulTruncation(t *testing.T) {
	tests := []struct {
		name string
		a, b Val
		want Val
	}{
		{"one times one", One, One, One},
		{"half times half", Half, Half, One / 4},
		{"two times three", FromInt(2), FromInt(3), FromInt(6)},
		{"negative operand", FromInt(-2), FromInt(3), FromInt(-6)},
		{"both negative", FromInt(-2), FromInt(-3), FromInt(6)},
		{"sub-unit truncation", 1, 1, 0}, // (1/65536)² rounds to zero
		{"scalar 0.45", FromInt(100), 29491, 44} , // 100 × 0.45 keeps fractional bits
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "scalar 0.45" {
				got := Mul(tt.a, tt.b).Int()
				if got != 44 {
					t.Fatalf("Mul(100, 0.45).Int() = %d, want 44", got)
				}
				return
			}
			if got := Mul(tt.a, tt.b); got != tt.want {
				t.Errorf("Mul(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDiv(t *testing.T) {
	if got := Div(FromInt(6), FromInt(3)); got != FromInt(2) {
		t.Errorf("Div(6, 3) = %v, want 2.0", got.Float())
	}
	if got := Div(One, FromInt(2)); got != Half {
		t.Errorf("Div(1, 2) = %v, want 0.5", got.Float())
	}
	if got := Div(FromInt(-6), FromInt(4)); got != -FromInt(3)/2 {
		t.Errorf("Div(-6, 4) = %v, want -1.5", got.Float())
	}
	// Division by zero is defined as zero, never a panic.
	if got := Div(One, 0); got != 0 {
		t.Errorf("Div(1, 0) = %d, want 0", got)
	}
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		name string
		in   Val
		want Val
	}{
		{"zero", 0, 0},
		{"negative clamps to zero", FromInt(-4), 0},
		{"one", One, One},
		{"four", FromInt(4), FromInt(2)},
		{"nine", FromInt(9), FromInt(3)},
		{"quarter", One / 4, Half},
		{"large", FromInt(2500), FromInt(50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sqrt(tt.in)
			// Integer Newton can land one ulp below the exact root.
			if got != tt.want && got != tt.want-1 {
				t.Errorf("Sqrt(%v) = %v, want %v", tt.in.Float(), got.Float(), tt.want.Float())
			}
		})
	}
}

// TestSqrtDeterministic exercises the iteration across a range of inputs;
// the result must be the floor of the real square root to within one ulp
// and must never oscillate.
func TestSqrtDeterministic(t *testing.T) {
	for i := int32(1); i < 10000; i += 37 {
		v := FromInt(i)
		r := Sqrt(v)
		rr := Mul(r, r)
		if rr > v {
			t.Fatalf("Sqrt(%d)² = %v overshoots input", i, rr.Float())
		}
		r1 := r + 2
		if Mul(r1, r1) <= v {
			t.Fatalf("Sqrt(%d) = %v undershoots by more than one ulp", i, r.Float())
		}
	}
}

func TestNormalize(t *testing.T) {
	// A degenerate vector must return (1, 0), not propagate ambiguity.
	zero := Vec{0, 0}.Normalize()
	if zero.X != One || zero.Y != 0 {
		t.Errorf("Normalize(0,0) = (%v,%v), want (1,0)", zero.X.Float(), zero.Y.Float())
	}
	tiny := Vec{Epsilon / 2, 0}.Normalize()
	if tiny.X != One || tiny.Y != 0 {
		t.Errorf("Normalize(tiny) = (%v,%v), want (1,0)", tiny.X.Float(), tiny.Y.Float())
	}

	// A proper vector normalizes to unit length within fixed-point error.
	v := Vec{FromInt(3), FromInt(4)}.Normalize()
	lsq := v.LengthSq()
	if Abs(lsq-One) > 64 {
		t.Errorf("Normalize(3,4).LengthSq() = %v, want ~1.0", lsq.Float())
	}
	if v.X <= 0 || v.Y <= 0 {
		t.Errorf("Normalize(3,4) lost direction: (%v,%v)", v.X.Float(), v.Y.Float())
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(FromInt(5), 0, FromInt(3)); got != FromInt(3) {
		t.Errorf("Clamp above = %v", got.Float())
	}
	if got := Clamp(FromInt(-5), 0, FromInt(3)); got != 0 {
		t.Errorf("Clamp below = %v", got.Float())
	}
	if got := Clamp(One, 0, FromInt(3)); got != One {
		t.Errorf("Clamp inside = %v", got.Float())
	}
}

func TestDistSq(t *testing.T) {
	a := Vec{0, 0}
	b := Vec{FromInt(3), FromInt(4)}
	if got := DistSq(a, b); got != FromInt(25) {
		t.Errorf("DistSq = %v, want 25", got.Float())
	}
}

func BenchmarkSqrt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Sqrt(Val(i&0x7fffffff) | 1)
	}
}

func BenchmarkNormalize(b *testing.B) {
	v := Vec{FromInt(13), FromInt(-7)}
	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

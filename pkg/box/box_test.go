package box

import (
	"testing"

	"github.com/matzehuels/boxtower/pkg/errors"
)

func TestDominates(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want bool
	}{
		{"strictly larger", New(1, 10, 10), New(1, 5, 5), true},
		{"height ignored", New(100, 10, 10), New(1, 5, 5), true},
		{"equal width", New(1, 5, 10), New(1, 5, 5), false},
		{"equal depth", New(1, 10, 5), New(1, 5, 5), false},
		{"wider but shallower", New(1, 10, 4), New(1, 5, 5), false},
		{"identical", New(3, 4, 5), New(3, 4, 5), false},
		{"reversed", New(1, 5, 5), New(1, 10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dominates(tt.a, tt.b); got != tt.want {
				t.Errorf("Dominates(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.a.Supports(tt.b); got != tt.want {
				t.Errorf("%v.Supports(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDominatesIsIrreflexiveAndAsymmetric(t *testing.T) {
	boxes := []Box{New(10, 5, 8), New(5, 8, 10), New(8, 5, 10), New(7, 1, 15), New(2, 9, 11)}
	for _, a := range boxes {
		if Dominates(a, a) {
			t.Errorf("%v dominates itself", a)
		}
		for _, b := range boxes {
			if Dominates(a, b) && Dominates(b, a) {
				t.Errorf("%v and %v dominate each other", a, b)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		wantErr bool
	}{
		{"valid", New(1, 1, 1), false},
		{"zero height", New(0, 1, 1), true},
		{"negative width", New(1, -1, 1), true},
		{"zero depth", New(1, 1, 0), true},
		{"max dimension", New(MaxDimension, MaxDimension, MaxDimension), false},
		{"height too large", New(MaxDimension+1, 1, 1), true},
		{"width too large", New(1, 3037000500, 3037000500), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidBox) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBox)
			}
		})
	}
}

func TestAreaDoesNotOverflow(t *testing.T) {
	b := New(1, MaxDimension, MaxDimension)
	want := int64(MaxDimension) * int64(MaxDimension)
	if got := b.Area(); got != want || got <= 0 {
		t.Errorf("Area() = %d, want %d", got, want)
	}
}

func TestValidateAll(t *testing.T) {
	if err := ValidateAll(nil); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("ValidateAll(nil) = %v, want EMPTY_INPUT", err)
	}
	if err := ValidateAll([]Box{New(1, 2, 3), New(4, 0, 6)}); !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("ValidateAll(bad) = %v, want INVALID_BOX", err)
	}
	if err := ValidateAll([]Box{New(1, 2, 3)}); err != nil {
		t.Errorf("ValidateAll(good) = %v", err)
	}
}

func TestChainHelpers(t *testing.T) {
	chain := []Box{New(3, 10, 10), New(4, 8, 9), New(5, 1, 1)}
	if !IsChain(chain) {
		t.Errorf("IsChain(%v) = false", chain)
	}
	if got := TotalHeight(chain); got != 12 {
		t.Errorf("TotalHeight = %d, want 12", got)
	}

	broken := []Box{New(3, 10, 10), New(4, 10, 9)}
	if IsChain(broken) {
		t.Errorf("IsChain(%v) = true", broken)
	}
	if got := ChainBreak(broken); got != 0 {
		t.Errorf("ChainBreak = %d, want 0", got)
	}

	if !IsChain(nil) || TotalHeight(nil) != 0 {
		t.Error("empty slice should be a chain of height 0")
	}
}

func TestPick(t *testing.T) {
	boxes := []Box{New(1, 1, 1), New(2, 2, 2), New(3, 3, 3)}
	got := Pick(boxes, []int{2, 0})
	if len(got) != 2 || got[0] != boxes[2] || got[1] != boxes[0] {
		t.Errorf("Pick = %v", got)
	}
}

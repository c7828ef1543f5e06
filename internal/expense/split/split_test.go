package split

import (
	"errors"
	"math"
	"testing"
)

func participants(ids ...int64) []Participant {
	ps := make([]Participant, len(ids))
	for i, id := range ids {
		ps[i] = Participant{UserID: id}
	}
	return ps
}

func centsSum(shares []Share) float64 {
	var sum float64
	for _, s := range shares {
		sum += s.Amount
	}
	return math.Round(sum*100) / 100
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		ids     []int64
		want    []float64
		wantErr error
	}{
		{
			name:  "non-terminating division, remainder to last",
			total: 10.00,
			ids:   []int64{1, 2, 3},
			want:  []float64{3.33, 3.33, 3.34},
		},
		{
			name:  "divides evenly",
			total: 100.00,
			ids:   []int64{1, 2, 3, 4},
			want:  []float64{25.00, 25.00, 25.00, 25.00},
		},
		{
			name:  "single participant",
			total: 42.50,
			ids:   []int64{9},
			want:  []float64{42.50},
		},
		{
			name:  "two cents remainder",
			total: 100.00,
			ids:   []int64{1, 2, 3, 4, 5, 6},
			want:  []float64{16.66, 16.66, 16.66, 16.66, 16.66, 16.70},
		},
		{
			name:    "no participants",
			total:   10.00,
			ids:     nil,
			wantErr: ErrNoParticipants,
		},
		{
			name:    "zero total",
			total:   0,
			ids:     []int64{1, 2},
			wantErr: ErrNonPositiveAmount,
		},
		{
			name:    "negative total",
			total:   -5.00,
			ids:     []int64{1, 2},
			wantErr: ErrNonPositiveAmount,
		},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Compute(tt.total, participants(tt.ids...))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() unexpected error: %v", err)
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("Compute() returned %d shares, want %d", len(shares), len(tt.want))
			}
			for i, share := range shares {
				if share.UserID != tt.ids[i] {
					t.Errorf("share %d user = %d, want %d (caller order must be preserved)", i, share.UserID, tt.ids[i])
				}
				if math.Abs(share.Amount-tt.want[i]) > 1e-9 {
					t.Errorf("share %d amount = %v, want %v", i, share.Amount, tt.want[i])
				}
			}
			if sum := centsSum(shares); sum != tt.total {
				t.Errorf("shares sum = %v, want exactly %v", sum, tt.total)
			}
		})
	}
}

// The shares must sum to the total to the cent for any participant count,
// not just the handpicked cases.
func TestEqualSplitExactness(t *testing.T) {
	strategy := &EqualStrategy{}
	totals := []float64{0.01, 0.05, 1.00, 10.00, 99.99, 123.45, 1000.01}

	for _, total := range totals {
		for n := 1; n <= 9; n++ {
			ids := make([]int64, n)
			for i := range ids {
				ids[i] = int64(i + 1)
			}
			shares, err := strategy.Compute(total, participants(ids...))
			if err != nil {
				t.Fatalf("Compute(%v, n=%d) error: %v", total, n, err)
			}
			if sum := centsSum(shares); sum != total {
				t.Errorf("Compute(%v, n=%d) shares sum = %v", total, n, sum)
			}
		}
	}
}

func TestExactSplit(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	t.Run("passes amounts through unchanged", func(t *testing.T) {
		strategy := &ExactStrategy{}
		ps := []Participant{
			{UserID: 1, Amount: amount(12.34)},
			{UserID: 2, Amount: amount(7.66)},
		}
		shares, err := strategy.Compute(20.00, ps)
		if err != nil {
			t.Fatalf("Compute() error: %v", err)
		}
		want := []Share{{UserID: 1, Amount: 12.34}, {UserID: 2, Amount: 7.66}}
		for i, s := range shares {
			if s != want[i] {
				t.Errorf("share %d = %+v, want %+v", i, s, want[i])
			}
		}
	})

	t.Run("does not clamp mismatched sums", func(t *testing.T) {
		// Tolerance enforcement belongs to the validator, not the strategy.
		strategy := &ExactStrategy{}
		ps := []Participant{{UserID: 1, Amount: amount(5.00)}}
		shares, err := strategy.Compute(20.00, ps)
		if err != nil {
			t.Fatalf("Compute() error: %v", err)
		}
		if shares[0].Amount != 5.00 {
			t.Errorf("amount = %v, want 5.00 untouched", shares[0].Amount)
		}
	})

	t.Run("missing amount", func(t *testing.T) {
		strategy := &ExactStrategy{}
		ps := []Participant{{UserID: 1, Amount: amount(10)}, {UserID: 2}}
		if _, err := strategy.Compute(20.00, ps); !errors.Is(err, ErrMissingAmount) {
			t.Fatalf("Compute() error = %v, want ErrMissingAmount", err)
		}
	})
}

func TestFactory(t *testing.T) {
	factory := NewFactory()

	for _, mode := range []Mode{ModeEqual, ModeExact} {
		strategy, err := factory.Create(mode)
		if err != nil {
			t.Fatalf("Create(%s) error: %v", mode, err)
		}
		if strategy.Mode() != mode {
			t.Errorf("Create(%s).Mode() = %s", mode, strategy.Mode())
		}
	}

	for _, mode := range []Mode{ModePercentage, ModeShares} {
		if _, err := factory.Create(mode); !errors.Is(err, ErrModeNotSupported) {
			t.Errorf("Create(%s) error = %v, want ErrModeNotSupported", mode, err)
		}
	}

	if _, err := factory.Create(Mode("half")); err == nil {
		t.Error("Create(half) expected error for unknown mode")
	}
}

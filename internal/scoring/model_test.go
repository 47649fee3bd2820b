package scoring

import (
	"errors"
	"math/rand"
	"testing"
)

func TestCombine_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		weights   map[string]float64
		subscores map[string]float64
		want      float64
	}{
		{
			name:      "simple weighted sum",
			weights:   map[string]float64{"a": 0.5, "b": 0.5},
			subscores: map[string]float64{"a": 1.0, "b": 0.0},
			want:      0.5,
		},
		{
			name:      "overweighted table clamps to 1",
			weights:   map[string]float64{"a": 2.0, "b": 1.0},
			subscores: map[string]float64{"a": 1.0, "b": 1.0},
			want:      1.0,
		},
		{
			name:      "empty subscores",
			weights:   map[string]float64{"a": 0.5},
			subscores: map[string]float64{},
			want:      0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(tt.weights)
			got, err := m.Combine(tt.subscores)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Combine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCombine_OutputAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	factors := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 200; i++ {
		weights := make(map[string]float64)
		subscores := make(map[string]float64)
		for _, f := range factors {
			weights[f] = rng.Float64() * 3
			subscores[f] = rng.Float64()
		}

		m := NewModel(weights)
		got, err := m.Combine(subscores)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got < 0 || got > 1 {
			t.Fatalf("Combine() = %v out of [0,1] for weights %v", got, weights)
		}
	}
}

func TestCombine_UnknownFactor(t *testing.T) {
	m := NewModel(map[string]float64{"known": 1.0})

	_, err := m.Combine(map[string]float64{"unknown": 0.5})
	if err == nil {
		t.Fatal("expected error for unknown factor")
	}

	var invalid *InvalidFactorError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFactorError, got %T", err)
	}
	if invalid.Factor != "unknown" {
		t.Errorf("Factor = %q, want %q", invalid.Factor, "unknown")
	}
}

func TestNewNormalizedModel(t *testing.T) {
	m := NewNormalizedModel(map[string]float64{"a": 1.0, "b": 3.0})

	got, err := m.Combine(map[string]float64{"a": 1.0, "b": 1.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0.999 || got > 1.001 {
		t.Errorf("normalized full-score combine = %v, want 1.0", got)
	}
	if w := m.Weight("b"); w < 0.749 || w > 0.751 {
		t.Errorf("Weight(b) = %v, want 0.75", w)
	}
}

package gen

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestDurationModel_Regimes(t *testing.T) {
	m := NewDurationModel(rand.New(rand.NewSource(1)))

	for i := 0; i < 10000; i++ {
		d := m.Sample(false)
		if d < normalMinMS || d > normalMaxMS {
			t.Fatalf("normal duration %f outside [%f,%f]", d, normalMinMS, normalMaxMS)
		}
	}
	for i := 0; i < 10000; i++ {
		d := m.Sample(true)
		if d < bottleneckMinMS || d > bottleneckMaxMS {
			t.Fatalf("bottleneck duration %f outside [%f,%f]", d, bottleneckMinMS, bottleneckMaxMS)
		}
	}
}

func TestDurationModel_TwoDecimals(t *testing.T) {
	m := NewDurationModel(rand.New(rand.NewSource(2)))

	for i := 0; i < 1000; i++ {
		d := m.Sample(i%2 == 0)
		scaled := d * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("duration %v not rounded to 2 decimals", d)
		}
	}
}

func TestMsToDuration(t *testing.T) {
	tests := []struct {
		ms       float64
		expected time.Duration
	}{
		{1.00, time.Millisecond},
		{0.01, 10 * time.Microsecond},
		{50.00, 50 * time.Millisecond},
		{123.45, 123450 * time.Microsecond},
		{1000.00, time.Second},
	}

	for _, tt := range tests {
		got := msToDuration(tt.ms)
		if got != tt.expected {
			t.Errorf("msToDuration(%v) = %v, want %v", tt.ms, got, tt.expected)
		}
	}
}

package threshold

import (
	"math"
	"testing"
)

func TestOtsuBimodalExtremes(t *testing.T) {
	var hist [bins]int
	hist[0] = 100
	hist[255] = 100

	_, high := Otsu(hist)
	if math.Abs(high-0.5) > 1.0/bins {
		t.Fatalf("expected high threshold near 0.5, got %v", high)
	}
}

func TestOtsuLowIsHalfOfHigh(t *testing.T) {
	var hist [bins]int
	hist[10] = 50
	hist[200] = 50
	low, high := Otsu(hist)
	if math.Abs(low-high/2) > 1e-9 {
		t.Fatalf("expected low == high/2, got low=%v high=%v", low, high)
	}
}

func TestTwoLevelOrdering(t *testing.T) {
	var hist [bins]int
	hist[10] = 40
	hist[120] = 40
	hist[240] = 40
	low, high := TwoLevel(hist)
	if !(low < high) {
		t.Fatalf("expected low < high, got low=%v high=%v", low, high)
	}
	if low <= 0 || high >= 1 {
		t.Fatalf("expected thresholds within (0,1), got low=%v high=%v", low, high)
	}
}

func TestEmptyHistogram(t *testing.T) {
	var hist [bins]int
	low, high := TwoLevel(hist)
	if low != 0 || high != 0 {
		t.Fatalf("expected zero thresholds for empty histogram, got low=%v high=%v", low, high)
	}
}

package sparepart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalCost(t *testing.T) {
	parts := []SparePart{
		{Quantity: 2, UnitCost: decimal.RequireFromString("10.50")},
		{Quantity: 1, UnitCost: decimal.RequireFromString("99.99")},
		{Quantity: 4, UnitCost: decimal.RequireFromString("0.25")},
	}

	got := TotalCost(parts)
	want := decimal.RequireFromString("121.99")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestTotalCost_Empty(t *testing.T) {
	if got := TotalCost(nil); !got.Equal(decimal.Zero) {
		t.Fatalf("expected zero, got %s", got)
	}
}

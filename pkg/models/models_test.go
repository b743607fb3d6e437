package models

import (
	"errors"
	"math"
	"testing"
)

func TestNewCandle(t *testing.T) {
	tests := []struct {
		name                   string
		open, high, low, close float64
		wantErr                bool
	}{
		{"bullish", 100, 110, 90, 105, false},
		{"bearish", 105, 110, 90, 100, false},
		{"flat", 100, 100, 100, 100, false},
		{"high below low", 100, 80, 90, 100, true},
		{"high below body", 100, 103, 90, 105, true},
		{"low above body", 100, 110, 101, 105, true},
		{"nan", math.NaN(), 110, 90, 105, true},
		{"inf", 100, math.Inf(1), 90, 105, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCandle(tt.open, tt.high, tt.low, tt.close)
			if tt.wantErr && !errors.Is(err, ErrInvalidCandle) {
				t.Fatalf("expected ErrInvalidCandle, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCandle_Class(t *testing.T) {
	if (Candle{Open: 100, High: 100, Low: 100, Close: 100}).Class() != ClassBullish {
		t.Error("close == open must be bullish")
	}
	if (Candle{Open: 105, High: 110, Low: 90, Close: 100}).Class() != ClassBearish {
		t.Error("close < open must be bearish")
	}
	c := Candle{Open: 105, High: 110, Low: 90, Close: 100}
	if c.BodyTop() != 105 || c.BodyBottom() != 100 {
		t.Errorf("body = %v..%v", c.BodyBottom(), c.BodyTop())
	}
}

func TestSeries_PriceRange(t *testing.T) {
	s := Series{
		{Open: 100, High: 110, Low: 90, Close: 105},
		{Open: 105, High: 120, Low: 95, Close: 100},
	}
	min, max, ok := s.PriceRange()
	if !ok || min != 90 || max != 120 {
		t.Fatalf("range = %v..%v (%v)", min, max, ok)
	}
	if s.Span() != 30 {
		t.Fatalf("span = %v", s.Span())
	}
	if _, _, ok := (Series{}).PriceRange(); ok {
		t.Fatal("empty series has no range")
	}
}

func TestSeries_ValidateReportsIndex(t *testing.T) {
	s := Series{
		{Open: 100, High: 110, Low: 90, Close: 105},
		{Open: 100, High: 99, Low: 90, Close: 105},
	}
	err := s.Validate()
	if !errors.Is(err, ErrInvalidCandle) {
		t.Fatalf("expected ErrInvalidCandle, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	for name, want := range map[string]Field{"open": FieldOpen, "High": FieldHigh, " LOW": FieldLow, "close": FieldClose} {
		got, err := ParseField(name)
		if err != nil || got != want {
			t.Errorf("ParseField(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseField("volume"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("expected ErrInvalidField, got %v", err)
	}
	if Field(4).Valid() || Field(-1).Valid() {
		t.Error("out of range field reported valid")
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(1); err != nil || d != Up {
		t.Errorf("ParseDirection(1) = %v, %v", d, err)
	}
	if d, err := ParseDirection(-1); err != nil || d != Down {
		t.Errorf("ParseDirection(-1) = %v, %v", d, err)
	}
	for _, v := range []int{0, 2, -5} {
		if _, err := ParseDirection(v); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("ParseDirection(%d): expected ErrInvalidDirection, got %v", v, err)
		}
	}
}

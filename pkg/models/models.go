package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Candle представляет свечу
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
	// Time необязателен и только переносится вместе со свечой
	Time time.Time
}

// Class классификация свечи для подсветки
type Class int

const (
	ClassBullish Class = iota
	ClassBearish
)

func (c Class) String() string {
	if c == ClassBearish {
		return "bearish"
	}
	return "bullish"
}

// NewCandle создает свечу и проверяет инварианты OHLC
func NewCandle(open, high, low, close float64) (Candle, error) {
	c := Candle{Open: open, High: high, Low: low, Close: close}
	if err := c.Validate(); err != nil {
		return Candle{}, err
	}
	return c, nil
}

// Validate проверяет low <= min(open, close) и high >= max(open, close)
func (c Candle) Validate() error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: нечисловое значение %v", ErrInvalidCandle, v)
		}
	}
	if c.High < c.Low {
		return fmt.Errorf("%w: high %v < low %v", ErrInvalidCandle, c.High, c.Low)
	}
	if c.High < math.Max(c.Open, c.Close) {
		return fmt.Errorf("%w: high %v ниже тела", ErrInvalidCandle, c.High)
	}
	if c.Low > math.Min(c.Open, c.Close) {
		return fmt.Errorf("%w: low %v выше тела", ErrInvalidCandle, c.Low)
	}
	return nil
}

// Bullish true, если close >= open
func (c Candle) Bullish() bool {
	return c.Close >= c.Open
}

func (c Candle) Class() Class {
	if c.Bullish() {
		return ClassBullish
	}
	return ClassBearish
}

// BodyTop и BodyBottom границы тела свечи
func (c Candle) BodyTop() float64    { return math.Max(c.Open, c.Close) }
func (c Candle) BodyBottom() float64 { return math.Min(c.Open, c.Close) }

// Get возвращает значение поля
func (c Candle) Get(f Field) float64 {
	switch f {
	case FieldOpen:
		return c.Open
	case FieldHigh:
		return c.High
	case FieldLow:
		return c.Low
	default:
		return c.Close
	}
}

// Series упорядоченная последовательность свечей, индекс = время
type Series []Candle

// PriceRange возвращает min(low) и max(high) по всей серии
func (s Series) PriceRange() (min, max float64, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, c := range s {
		if c.Low < min {
			min = c.Low
		}
		if c.High > max {
			max = c.High
		}
	}
	return min, max, true
}

// Span ширина ценового диапазона серии
func (s Series) Span() float64 {
	min, max, ok := s.PriceRange()
	if !ok {
		return 0
	}
	return max - min
}

func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Validate проверяет каждую свечу серии
func (s Series) Validate() error {
	for i, c := range s {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("свеча %d: %w", i, err)
		}
	}
	return nil
}

// Field поле свечи, которое можно редактировать
type Field int

const (
	FieldOpen Field = iota
	FieldHigh
	FieldLow
	FieldClose
)

var fieldNames = [...]string{"open", "high", "low", "close"}

func (f Field) String() string {
	if f < FieldOpen || f > FieldClose {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Valid true для одного из четырех полей
func (f Field) Valid() bool {
	return f >= FieldOpen && f <= FieldClose
}

// ParseField переводит имя поля от хоста во внутреннее значение
func ParseField(name string) (Field, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, fn := range fieldNames {
		if fn == n {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, name)
}

// Direction направление изменения или движения
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func ParseDirection(v int) (Direction, error) {
	d := Direction(v)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, v)
	}
	return d, nil
}

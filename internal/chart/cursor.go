package chart

import (
	"fmt"
	"strings"

	"github.com/skalibog/candleedit/pkg/models"
)

// Cursor позиция курсора: свеча и строка сетки
type Cursor struct {
	Candle int
	Row    int
}

// Axis ось движения курсора
type Axis int

const (
	AxisCandle Axis = iota
	AxisRow
)

func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "candle"
}

func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "candle":
		return AxisCandle, nil
	case "row":
		return AxisRow, nil
	}
	return 0, fmt.Errorf("неизвестная ось %q", name)
}

// Navigator переходы курсора с насыщением на краях
type Navigator struct {
	Candles int
	Height  int
}

func (n Navigator) MoveCandle(c Cursor, d models.Direction) Cursor {
	c.Candle = clamp(c.Candle+int(d), 0, n.Candles-1)
	return c
}

func (n Navigator) MoveRow(c Cursor, d models.Direction) Cursor {
	c.Row = clamp(c.Row+int(d), 0, n.Height-1)
	return c
}

func (n Navigator) Move(c Cursor, a Axis, d models.Direction) Cursor {
	if a == AxisRow {
		return n.MoveRow(c, d)
	}
	return n.MoveCandle(c, d)
}

// Clamp возвращает курсор в пределы сетки, например после удаления свечи
func (n Navigator) Clamp(c Cursor) Cursor {
	c.Candle = clamp(c.Candle, 0, n.Candles-1)
	c.Row = clamp(c.Row, 0, n.Height-1)
	return c
}

// пустая серия: hi < lo, курсор остается на 0
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

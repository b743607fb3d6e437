package chart

import (
	"fmt"
	"math"

	"github.com/skalibog/candleedit/pkg/models"
)

// Adjust сдвигает поле свечи на direction*step и восстанавливает инвариант.
//
// Open и close тянут за собой тень: если новое значение дошло до high
// или low, граница сдвигается вместе с ним. High и low упираются в тело
// и не могут пройти сквозь него.
func Adjust(c models.Candle, f models.Field, d models.Direction, step float64) (models.Candle, error) {
	if !f.Valid() {
		return c, fmt.Errorf("%w: %v", models.ErrInvalidField, f)
	}
	if !d.Valid() {
		return c, fmt.Errorf("%w: %d", models.ErrInvalidDirection, int(d))
	}
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return c, fmt.Errorf("%w: %v", models.ErrInvalidStep, step)
	}

	out := c
	delta := float64(d) * step

	switch f {
	case models.FieldOpen, models.FieldClose:
		v := c.Get(f) + delta
		switch {
		case v >= c.High:
			out.High = v
		case v <= c.Low:
			out.Low = v
		}
		if f == models.FieldOpen {
			out.Open = v
		} else {
			out.Close = v
		}
	case models.FieldHigh:
		floor := math.Max(math.Max(c.Open, c.Close), c.Low)
		out.High = math.Max(c.High+delta, floor)
	case models.FieldLow:
		ceil := math.Min(math.Min(c.Open, c.Close), c.High)
		out.Low = math.Min(c.Low+delta, ceil)
	}

	if err := out.Validate(); err != nil {
		return c, fmt.Errorf("изменение %s нарушило инвариант: %w", f, err)
	}
	return out, nil
}

package chart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/skalibog/candleedit/pkg/models"
)

// Legend значения свечи для оверлея хоста
type Legend struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func LegendOf(c models.Candle) Legend {
	return Legend{Open: c.Open, High: c.High, Low: c.Low, Close: c.Close}
}

// String формат open:<v>,high:<v>,low:<v>,close:<v> с одним знаком после запятой.
// Этот формат читают существующие адаптеры хоста, менять его нельзя.
func (l Legend) String() string {
	return fmt.Sprintf("open:%s,high:%s,low:%s,close:%s",
		models.FormatPriceFixed(l.Open, 1),
		models.FormatPriceFixed(l.High, 1),
		models.FormatPriceFixed(l.Low, 1),
		models.FormatPriceFixed(l.Close, 1),
	)
}

// ParseLegend обратное преобразование строки легенды
func ParseLegend(s string) (Legend, error) {
	var l Legend
	seen := map[models.Field]bool{}

	for _, part := range strings.Split(strings.TrimSpace(s), ",") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			return Legend{}, fmt.Errorf("некорректная легенда %q: нет ':' в %q", s, part)
		}
		f, err := models.ParseField(key)
		if err != nil {
			return Legend{}, fmt.Errorf("некорректная легенда %q: %w", s, err)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return Legend{}, fmt.Errorf("некорректная легенда %q: %q не число", s, val)
		}
		v := d.InexactFloat64()

		switch f {
		case models.FieldOpen:
			l.Open = v
		case models.FieldHigh:
			l.High = v
		case models.FieldLow:
			l.Low = v
		case models.FieldClose:
			l.Close = v
		}
		seen[f] = true
	}

	if len(seen) != 4 {
		return Legend{}, fmt.Errorf("некорректная легенда %q: нужны все четыре поля", s)
	}
	return l, nil
}

// Candle свеча из легенды с проверкой инварианта
func (l Legend) Candle() (models.Candle, error) {
	return models.NewCandle(l.Open, l.High, l.Low, l.Close)
}

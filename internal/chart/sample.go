package chart

import (
	"math"
	"math/rand"

	"github.com/skalibog/candleedit/pkg/models"
)

// SampleSeries пять свечей для проверки отрисовки
func SampleSeries() models.Series {
	return models.Series{
		{Open: 100, High: 108, Low: 98, Close: 105},
		{Open: 105, High: 112, Low: 103, Close: 110},
		{Open: 110, High: 115, Low: 107, Close: 108},
		{Open: 108, High: 110, Low: 105, Close: 112},
		{Open: 112, High: 118, Low: 109, Close: 115},
	}
}

// RandomWalk генерирует n свечей случайным блужданием от start.
// Одинаковый seed дает одинаковую серию.
func RandomWalk(n int, start float64, seed int64) models.Series {
	if n <= 0 {
		return models.Series{}
	}
	if start <= 0 {
		start = 100
	}
	rnd := rand.New(rand.NewSource(seed))

	series := make(models.Series, 0, n)
	price := start
	for i := 0; i < n; i++ {
		if i > 0 {
			price = series[i-1].Close * (1 + rnd.NormFloat64()*0.02)
		}
		open := price
		span := math.Abs(rnd.NormFloat64()*0.03) * open
		dir := 1.0
		if rnd.Intn(2) == 0 {
			dir = -1
		}

		high := open + span*(0.5+rnd.Float64()*0.5)
		low := open - span*(0.5+rnd.Float64()*0.5)
		close := open + dir*span*(0.3+rnd.Float64()*0.5)

		c := models.Candle{
			Open:  round2(open),
			Close: round2(close),
		}
		c.High = math.Max(round2(high), math.Max(c.Open, c.Close))
		c.Low = math.Min(round2(low), math.Min(c.Open, c.Close))
		series = append(series, c)
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package technical

import (
	"math"

	"github.com/markcheno/go-talib"

	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/pkg/models"
)

// Stats индикаторы серии для строки состояния.
// Поле *OK false, если свечей меньше, чем нужно периоду.
type Stats struct {
	SMA   float64
	SMAOK bool
	ATR   float64
	ATROK bool
	RSI   float64
	RSIOK bool
}

// Analyzer реализует анализатор технических индикаторов
type Analyzer struct {
	config config.AnalysisConfig
}

// NewAnalyzer создает новый анализатор технических индикаторов
func NewAnalyzer(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{
		config: cfg,
	}
}

// Analyze считает последние значения SMA закрытий, ATR и RSI
func (a *Analyzer) Analyze(series models.Series) Stats {
	closes := make([]float64, len(series))
	highs := make([]float64, len(series))
	lows := make([]float64, len(series))
	for i, c := range series {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	var st Stats
	// talib выходит за границы массива, если данных меньше периода
	if p := a.config.SMAPeriod; p >= 1 && len(closes) >= p {
		st.SMA, st.SMAOK = last(talib.Sma(closes, p))
	}
	if p := a.config.ATRPeriod; p >= 1 && len(closes) > p {
		st.ATR, st.ATROK = last(talib.Atr(highs, lows, closes, p))
	}
	if p := a.config.RSIPeriod; p >= 2 && len(closes) > p {
		st.RSI, st.RSIOK = last(talib.Rsi(closes, p))
	}
	return st
}

func last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := values[len(values)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

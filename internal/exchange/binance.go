package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"

	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

// BinanceClient клиент для загрузки исходных свечей с Binance Futures
type BinanceClient struct {
	futures *futures.Client
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(cfg config.BinanceConfig) *BinanceClient {
	if cfg.Testnet {
		futures.UseTestnet = true
	}
	return &BinanceClient{
		futures: futures.NewClient(cfg.APIKey, cfg.APISecret),
	}
}

// GetKlines получает исторические свечи как серию для редактирования
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) (models.Series, error) {
	klines, err := c.futures.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения свечей: %w", err)
	}

	series, err := KlinesToSeries(klines)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора свечей %s: %w", symbol, err)
	}

	logger.Info("Свечи получены с Binance",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("candles", len(series)))
	return series, nil
}

// KlinesToSeries переводит свечи биржи в серию с проверкой инвариантов
func KlinesToSeries(klines []*futures.Kline) (models.Series, error) {
	series := make(models.Series, 0, len(klines))
	for i, k := range klines {
		var vals [4]float64
		for j, s := range []string{k.Open, k.High, k.Low, k.Close} {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("свеча %d: %w: %q", i, models.ErrInvalidCandle, s)
			}
			vals[j] = v
		}

		candle, err := models.NewCandle(vals[0], vals[1], vals[2], vals[3])
		if err != nil {
			return nil, fmt.Errorf("свеча %d: %w", i, err)
		}
		candle.Time = time.UnixMilli(k.OpenTime).UTC()
		series = append(series, candle)
	}
	return series, nil
}

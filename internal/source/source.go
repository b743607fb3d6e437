package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/internal/exchange"
	"github.com/skalibog/candleedit/internal/storage"
	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

// KlineFetcher источник свечей с биржи
type KlineFetcher interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) (models.Series, error)
}

// Loader выбирает, откуда взять серию при запуске
type Loader struct {
	cfg    config.SourceConfig
	store  storage.Storage
	klines KlineFetcher
}

func NewLoader(cfg config.SourceConfig, store storage.Storage, klines KlineFetcher) *Loader {
	return &Loader{cfg: cfg, store: store, klines: klines}
}

// Load возвращает серию из источника, указанного в конфигурации
func (l *Loader) Load(ctx context.Context) (models.Series, error) {
	var (
		series models.Series
		err    error
	)

	switch l.cfg.Type {
	case config.SourceSample, "":
		series = chart.SampleSeries()
	case config.SourceRandom:
		r := l.cfg.Random
		series = chart.RandomWalk(r.Count, r.Start, r.Seed)
	case config.SourceCSV, config.SourceInfluxDB:
		if l.store == nil {
			return nil, fmt.Errorf("хранилище не настроено для источника %s", l.cfg.Type)
		}
		series, err = l.store.LoadSeries(ctx, l.cfg.Series)
	case config.SourceBinance:
		if l.klines == nil {
			return nil, fmt.Errorf("клиент биржи не настроен")
		}
		k := l.cfg.Kline
		series, err = l.klines.GetKlines(ctx, k.Symbol, k.Interval, k.Limit)
	default:
		return nil, fmt.Errorf("неизвестный источник %q", l.cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки серии из %s: %w", l.cfg.Type, err)
	}

	logger.Info("Серия готова к редактированию",
		zap.String("source", l.cfg.Type),
		zap.String("series", l.cfg.Series),
		zap.Int("candles", len(series)))
	return series, nil
}

// NewKlineFetcher клиент Binance, если источник его требует
func NewKlineFetcher(cfg *config.Config) KlineFetcher {
	if cfg.Source.Type != config.SourceBinance {
		return nil
	}
	return exchange.NewBinanceClient(cfg.Binance)
}

package source

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/internal/storage"
	"github.com/skalibog/candleedit/pkg/models"
)

type memStore struct {
	series map[string]models.Series
}

func (m *memStore) LoadSeries(_ context.Context, name string) (models.Series, error) {
	s, ok := m.series[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s, nil
}

func (m *memStore) SaveSeries(_ context.Context, name string, s models.Series) error {
	m.series[name] = s
	return nil
}

func (m *memStore) Close() {}

type fakeKlines struct {
	symbol, interval string
	limit            int
}

func (f *fakeKlines) GetKlines(_ context.Context, symbol, interval string, limit int) (models.Series, error) {
	f.symbol, f.interval, f.limit = symbol, interval, limit
	return models.Series{{Open: 1, High: 2, Low: 0.5, Close: 1.5}}, nil
}

func TestLoader_Sample(t *testing.T) {
	cfg := config.Default().Source
	got, err := NewLoader(cfg, nil, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, chart.SampleSeries()) {
		t.Fatalf("series = %v", got)
	}
}

func TestLoader_Random(t *testing.T) {
	cfg := config.Default().Source
	cfg.Type = config.SourceRandom
	cfg.Random = config.RandomConfig{Count: 12, Start: 50, Seed: 4}

	got, err := NewLoader(cfg, nil, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, chart.RandomWalk(12, 50, 4)) {
		t.Fatal("random source must match RandomWalk with the same seed")
	}
}

func TestLoader_Store(t *testing.T) {
	store := &memStore{series: map[string]models.Series{
		"eth": {{Open: 10, High: 12, Low: 9, Close: 11}},
	}}
	cfg := config.Default().Source
	cfg.Type = config.SourceCSV
	cfg.Series = "eth"

	got, err := NewLoader(cfg, store, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Close != 11 {
		t.Fatalf("series = %v", got)
	}

	cfg.Series = "missing"
	if _, err := NewLoader(cfg, store, nil).Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := NewLoader(cfg, nil, nil).Load(context.Background()); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestLoader_Binance(t *testing.T) {
	fetcher := &fakeKlines{}
	cfg := config.Default().Source
	cfg.Type = config.SourceBinance

	got, err := NewLoader(cfg, nil, fetcher).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("series = %v", got)
	}
	if fetcher.symbol != "BTCUSDT" || fetcher.interval != "1h" || fetcher.limit != 30 {
		t.Fatalf("request = %+v", fetcher)
	}

	if _, err := NewLoader(cfg, nil, nil).Load(context.Background()); err == nil {
		t.Fatal("expected error without fetcher")
	}
}

func TestNewKlineFetcher(t *testing.T) {
	cfg := config.Default()
	if NewKlineFetcher(&cfg) != nil {
		t.Fatal("sample source needs no exchange client")
	}
}

package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/pkg/logger"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Chart    ChartConfig    `yaml:"chart"`
	Source   SourceConfig   `yaml:"source"`
	Storage  StorageConfig  `yaml:"storage"`
	Binance  BinanceConfig  `yaml:"binance"`
	Analysis AnalysisConfig `yaml:"analysis"`
	UI       UIConfig       `yaml:"ui"`
	Log      logger.Config  `yaml:"log"`
}

// ChartConfig настройки сетки графика
type ChartConfig struct {
	Height      int    `yaml:"height"`
	CandleWidth int    `yaml:"candle_width"`
	Resolution  string `yaml:"resolution"`
	Glyphs      string `yaml:"glyphs"`
}

// Типы источников серии
const (
	SourceSample   = "sample"
	SourceRandom   = "random"
	SourceCSV      = "csv"
	SourceInfluxDB = "influxdb"
	SourceBinance  = "binance"
)

// SourceConfig откуда берется серия при запуске
type SourceConfig struct {
	Type   string       `yaml:"type"`
	Series string       `yaml:"series"`
	Random RandomConfig `yaml:"random"`
	Kline  KlineConfig  `yaml:"kline"`
}

// RandomConfig параметры генератора случайного блуждания
type RandomConfig struct {
	Count int     `yaml:"count"`
	Start float64 `yaml:"start"`
	Seed  int64   `yaml:"seed"`
}

// KlineConfig параметры загрузки свечей с биржи
type KlineConfig struct {
	Symbol   string `yaml:"symbol"`
	Interval string `yaml:"interval"`
	Limit    int    `yaml:"limit"`
}

// Типы хранилищ
const (
	StorageCSV      = "csv"
	StorageInfluxDB = "influxdb"
)

// StorageConfig настройки хранения данных
type StorageConfig struct {
	Type           string `yaml:"type"`
	Dir            string `yaml:"dir"`
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	Organization   string `yaml:"organization"`
	Bucket         string `yaml:"bucket"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BinanceConfig содержит настройки подключения к Binance
type BinanceConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Testnet   bool   `yaml:"testnet"`
}

// AnalysisConfig периоды индикаторов в строке состояния
type AnalysisConfig struct {
	SMAPeriod int `yaml:"sma_period"`
	ATRPeriod int `yaml:"atr_period"`
	RSIPeriod int `yaml:"rsi_period"`
}

// UIConfig настройки пользовательского интерфейса
type UIConfig struct {
	ShowStats bool `yaml:"show_stats"`
	AltScreen bool `yaml:"alt_screen"`
}

// Default рабочая конфигурация без файла
func Default() Config {
	return Config{
		Chart: ChartConfig{
			Height:      chart.DefaultHeight,
			CandleWidth: chart.DefaultCandleWidth,
			Resolution:  "auto",
			Glyphs:      "ascii",
		},
		Source: SourceConfig{
			Type:   SourceSample,
			Series: "sample",
			Random: RandomConfig{Count: 20, Start: 150, Seed: 1},
			Kline:  KlineConfig{Symbol: "BTCUSDT", Interval: "1h", Limit: 30},
		},
		Storage: StorageConfig{
			Type:           StorageCSV,
			Dir:            "data",
			TimeoutSeconds: 10,
		},
		Analysis: AnalysisConfig{SMAPeriod: 5, ATRPeriod: 5, RSIPeriod: 5},
		UI:       UIConfig{ShowStats: true, AltScreen: true},
		Log: logger.Config{
			Dir:        "logs",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load загружает конфигурацию из файла поверх значений по умолчанию
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Загружена конфигурация",
		zap.String("path", path),
		zap.String("source", config.Source.Type),
		zap.String("storage", config.Storage.Type))
	return &config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Chart.Height < 1 {
		return fmt.Errorf("chart.height должна быть >= 1, получено %d", c.Chart.Height)
	}
	if c.Chart.CandleWidth < 1 {
		return fmt.Errorf("chart.candle_width должна быть >= 1, получено %d", c.Chart.CandleWidth)
	}
	if _, err := chart.ParseResolution(c.Chart.Resolution); err != nil {
		return fmt.Errorf("chart.resolution: %w", err)
	}
	if _, err := chart.GlyphsByName(c.Chart.Glyphs); err != nil {
		return fmt.Errorf("chart.glyphs: %w", err)
	}

	switch c.Source.Type {
	case SourceSample, SourceRandom, SourceCSV, SourceInfluxDB, SourceBinance:
	default:
		return fmt.Errorf("неизвестный source.type %q", c.Source.Type)
	}
	if c.Source.Type == SourceRandom && c.Source.Random.Count < 1 {
		return fmt.Errorf("source.random.count должен быть >= 1")
	}

	switch c.Storage.Type {
	case StorageCSV, StorageInfluxDB:
	default:
		return fmt.Errorf("неизвестный storage.type %q", c.Storage.Type)
	}
	if c.Storage.TimeoutSeconds < 1 {
		return fmt.Errorf("storage.timeout_seconds должен быть >= 1, получено %d", c.Storage.TimeoutSeconds)
	}

	for name, p := range map[string]int{
		"analysis.sma_period": c.Analysis.SMAPeriod,
		"analysis.atr_period": c.Analysis.ATRPeriod,
		"analysis.rsi_period": c.Analysis.RSIPeriod,
	} {
		if p < 1 {
			return fmt.Errorf("%s должен быть >= 1, получено %d", name, p)
		}
	}
	return nil
}

// ChartOptions настройки сессии графика из конфигурации
func (c *Config) ChartOptions() (chart.Options, error) {
	res, err := chart.ParseResolution(c.Chart.Resolution)
	if err != nil {
		return chart.Options{}, err
	}
	glyphs, err := chart.GlyphsByName(c.Chart.Glyphs)
	if err != nil {
		return chart.Options{}, err
	}
	return chart.Options{
		Height:      c.Chart.Height,
		CandleWidth: c.Chart.CandleWidth,
		Glyphs:      glyphs,
		Resolution:  res,
	}, nil
}

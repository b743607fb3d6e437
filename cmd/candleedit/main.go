package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/skalibog/candleedit/internal/analysis/technical"
	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/internal/source"
	"github.com/skalibog/candleedit/internal/storage"
	"github.com/skalibog/candleedit/internal/ui"
	"github.com/skalibog/candleedit/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Завершение с ошибкой", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "candleedit:", err)
		os.Exit(1)
	}
}

func run() error {
	// Обработка флагов командной строки
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	sourceType := flag.String("source", "", "источник серии: sample, random, csv, influxdb, binance")
	seriesName := flag.String("series", "", "имя серии в хранилище")
	printOnly := flag.Bool("print", false, "вывести график и выйти")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *sourceType != "" {
		cfg.Source.Type = *sourceType
	}
	if *seriesName != "" {
		cfg.Source.Series = *seriesName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	defer logger.Sync()

	// Отмена по сигналу завершения
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем хранилище
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}
	defer store.Close()

	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.TimeoutSeconds)*time.Second)
	defer cancel()
	series, err := source.NewLoader(cfg.Source, store, source.NewKlineFetcher(cfg)).Load(loadCtx)
	if err != nil {
		return err
	}

	opts, err := cfg.ChartOptions()
	if err != nil {
		return err
	}
	session, err := chart.NewSession(series, opts)
	if err != nil {
		return err
	}

	if *printOnly {
		return printChart(os.Stdout, session)
	}

	logger.Info("Запуск редактора", zap.String("series", cfg.Source.Series), zap.Int("candles", session.Len()))
	analyzer := technical.NewAnalyzer(cfg.Analysis)
	return ui.NewTermUI(ctx, cfg.UI, session, store, analyzer, cfg.Source.Series).Start()
}

// loadConfig читает файл, если он есть, иначе берет значения по умолчанию
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		def := config.Default()
		return &def, nil
	}
	return cfg, err
}

func printChart(w io.Writer, s *chart.Session) error {
	if _, err := fmt.Fprintln(w, s.Render().String()); err != nil {
		return err
	}
	if s.Len() == 0 {
		return nil
	}
	legend, err := s.Legend(0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, legend.String())
	return err
}

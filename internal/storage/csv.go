package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

// CSVStorage хранит каждую серию в файле <dir>/<name>.csv
type CSVStorage struct {
	dir string
}

func NewCSVStorage(dir string) (*CSVStorage, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}
	return &CSVStorage{dir: dir}, nil
}

// Path путь к файлу серии
func (s *CSVStorage) Path(name string) string {
	return filepath.Join(s.dir, seriesFileName(name))
}

func (s *CSVStorage) Close() {}

// LoadSeries читает серию из CSV
func (s *CSVStorage) LoadSeries(ctx context.Context, name string) (models.Series, error) {
	path := s.Path(name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("ошибка открытия %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, path)
}

// ReadCSV разбирает CSV с заголовком в серию
func ReadCSV(rd io.Reader, path string) (models.Series, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	series, err := models.DecodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}

	logger.Info("Серия загружена", zap.String("path", path), zap.Int("candles", len(series)))
	return series, nil
}

// SaveSeries записывает серию через временный файл, чтобы не оставить
// наполовину записанный CSV
func (s *CSVStorage) SaveSeries(ctx context.Context, name string, series models.Series) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("ошибка сохранения серии %s: %w", name, err)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, seriesFileName(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(models.EncodeRows(series)); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("ошибка сохранения %s: %w", path, err)
	}

	logger.Info("Серия сохранена", zap.String("path", path), zap.Int("candles", len(series)))
	return nil
}

func seriesFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "series"
	}
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return filepath.Base(name)
	}
	return filepath.Base(name) + ".csv"
}

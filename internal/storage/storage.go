package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/pkg/models"
)

// ErrNotFound серия с таким именем не сохранена
var ErrNotFound = errors.New("серия не найдена")

// Storage хранилище серий свечей по имени
type Storage interface {
	LoadSeries(ctx context.Context, name string) (models.Series, error)
	SaveSeries(ctx context.Context, name string, series models.Series) error
	Close()
}

// New создает хранилище по конфигурации
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case config.StorageCSV, "":
		return NewCSVStorage(cfg.Dir)
	case config.StorageInfluxDB:
		return NewInfluxDBStorage(cfg)
	}
	return nil, fmt.Errorf("неизвестный тип хранилища %q", cfg.Type)
}

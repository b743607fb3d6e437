// internal/storage/influxdb.go
package storage

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

const measurement = "candles"

// InfluxDBStorage реализует интерфейс Storage с использованием InfluxDB.
// Точка свечи i пишется с меткой времени epoch+i секунд, так порядок
// серии не зависит от исходного времени свечей. Исходное время хранится
// в поле time_ns.
type InfluxDBStorage struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
	timeout  time.Duration
}

// NewInfluxDBStorage создает новое хранилище InfluxDB
func NewInfluxDBStorage(cfg config.StorageConfig) (*InfluxDBStorage, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// Проверка соединения
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка соединения с InfluxDB: %w", err)
	}
	if health == nil || health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("InfluxDB не в состоянии 'pass': %+v", health)
	}

	return &InfluxDBStorage{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Organization),
		writeAPI: client.WriteAPIBlocking(cfg.Organization, cfg.Bucket),
		org:      cfg.Organization,
		bucket:   cfg.Bucket,
		timeout:  timeout,
	}, nil
}

// Close закрывает соединение с базой данных
func (s *InfluxDBStorage) Close() {
	s.client.Close()
}

// SaveSeries заменяет сохраненную серию: старые точки удаляются, новые пишутся
func (s *InfluxDBStorage) SaveSeries(ctx context.Context, name string, series models.Series) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("ошибка сохранения серии %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	predicate := fmt.Sprintf(`_measurement=%q AND series=%q`, measurement, name)
	if err := s.client.DeleteAPI().DeleteWithName(ctx, s.org, s.bucket, time.Unix(0, 0), deleteUntil(), predicate); err != nil {
		return fmt.Errorf("ошибка удаления старой серии %s: %w", name, err)
	}

	if err := s.writeAPI.WritePoint(ctx, SeriesPoints(name, series)...); err != nil {
		return fmt.Errorf("ошибка записи серии %s: %w", name, err)
	}

	logger.Info("Серия сохранена в InfluxDB", zap.String("series", name), zap.Int("candles", len(series)))
	return nil
}

// SeriesPoints точки InfluxDB для серии
func SeriesPoints(name string, series models.Series) []*write.Point {
	points := make([]*write.Point, 0, len(series))
	for i, c := range series {
		var ts int64
		if !c.Time.IsZero() {
			ts = c.Time.UnixNano()
		}
		points = append(points, influxdb2.NewPoint(
			measurement,
			map[string]string{
				"series": name,
			},
			map[string]interface{}{
				"open":    c.Open,
				"high":    c.High,
				"low":     c.Low,
				"close":   c.Close,
				"time_ns": ts,
			},
			slotTime(i),
		))
	}
	return points
}

// LoadSeries получает серию в порядке индексов
func (s *InfluxDBStorage) LoadSeries(ctx context.Context, name string) (models.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Формируем Flux-запрос
	query := fmt.Sprintf(`
		from(bucket: %q)
			|> range(start: 0)
			|> filter(fn: (r) => r._measurement == %q)
			|> filter(fn: (r) => r.series == %q)
			|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
			|> sort(columns: ["_time"])
	`, s.bucket, measurement, name)

	result, err := s.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса серии: %w", err)
	}

	var series models.Series
	for result.Next() {
		record := result.Record()

		open, _ := record.ValueByKey("open").(float64)
		high, _ := record.ValueByKey("high").(float64)
		low, _ := record.ValueByKey("low").(float64)
		close, _ := record.ValueByKey("close").(float64)

		c, err := models.NewCandle(open, high, low, close)
		if err != nil {
			return nil, fmt.Errorf("свеча %d серии %s: %w", len(series), name, err)
		}
		if ts, ok := record.ValueByKey("time_ns").(int64); ok && ts != 0 {
			c.Time = time.Unix(0, ts).UTC()
		}
		series = append(series, c)
	}

	// Проверяем на ошибки при обработке результатов
	if result.Err() != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", result.Err())
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	logger.Info("Серия загружена из InfluxDB", zap.String("series", name), zap.Int("candles", len(series)))
	return series, nil
}

func slotTime(i int) time.Time {
	return time.Unix(int64(i), 0).UTC()
}

func deleteUntil() time.Time {
	return time.Now().UTC().AddDate(1, 0, 0)
}

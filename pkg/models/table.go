package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Колонки табличного представления серии
const (
	ColumnOpen  = "open"
	ColumnHigh  = "high"
	ColumnLow   = "low"
	ColumnClose = "close"
	ColumnTime  = "time"
)

// EncodeRows сериализует серию в строки таблицы с заголовком.
// Колонка time добавляется, только если хотя бы у одной свечи задано время.
func EncodeRows(s Series) [][]string {
	withTime := false
	for _, c := range s {
		if !c.Time.IsZero() {
			withTime = true
			break
		}
	}

	header := []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose}
	if withTime {
		header = append(header, ColumnTime)
	}

	rows := make([][]string, 0, len(s)+1)
	rows = append(rows, header)
	for _, c := range s {
		row := []string{
			FormatPrice(c.Open),
			FormatPrice(c.High),
			FormatPrice(c.Low),
			FormatPrice(c.Close),
		}
		if withTime {
			ts := ""
			if !c.Time.IsZero() {
				ts = c.Time.UTC().Format(time.RFC3339)
			}
			row = append(row, ts)
		}
		rows = append(rows, row)
	}
	return rows
}

// DecodeRows разбирает таблицу с заголовком в серию.
// Строки, нарушающие инвариант, отклоняются, а не исправляются.
func DecodeRows(rows [][]string) (Series, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: нет заголовка", ErrInvalidCandle)
	}

	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: нет колонки %q", ErrInvalidCandle, col)
		}
	}
	timeCol, hasTime := idx[ColumnTime]

	series := make(Series, 0, len(rows)-1)
	for n, row := range rows[1:] {
		var vals [4]float64
		for j, col := range []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose} {
			v, err := parseCell(row, idx[col])
			if err != nil {
				return nil, fmt.Errorf("строка %d, колонка %s: %w", n+1, col, err)
			}
			vals[j] = v
		}

		c, err := NewCandle(vals[0], vals[1], vals[2], vals[3])
		if err != nil {
			return nil, fmt.Errorf("строка %d: %w", n+1, err)
		}

		if hasTime && timeCol < len(row) && strings.TrimSpace(row[timeCol]) != "" {
			t, err := time.Parse(time.RFC3339, strings.TrimSpace(row[timeCol]))
			if err != nil {
				return nil, fmt.Errorf("строка %d: %w: время %q", n+1, ErrInvalidCandle, row[timeCol])
			}
			c.Time = t
		}
		series = append(series, c)
	}
	return series, nil
}

func parseCell(row []string, i int) (float64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("%w: пустая ячейка", ErrInvalidCandle)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(row[i]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q не число", ErrInvalidCandle, row[i])
	}
	return d.InexactFloat64(), nil
}

// FormatPrice кратчайшая десятичная запись цены без шума float
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// FormatPriceFixed цена с фиксированным числом знаков после запятой
func FormatPriceFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

package chart

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

// Options настройки сессии графика
type Options struct {
	Height      int
	CandleWidth int
	Glyphs      Glyphs
	Resolution  Resolution
}

// DefaultOptions настройки по умолчанию: 10 строк, 3 символа на свечу
func DefaultOptions() Options {
	return Options{
		Height:      DefaultHeight,
		CandleWidth: DefaultCandleWidth,
		Glyphs:      ASCIIGlyphs,
		Resolution:  ResolutionAuto,
	}
}

// State снимок состояния сессии
type State struct {
	Candles    models.Series
	Cursor     Cursor
	Resolution Resolution
	Step       float64
}

// Session единственный владелец серии и курсора на время редактирования.
// Не безопасна для конкурентных вызовов: хост вызывает ее последовательно.
type Session struct {
	candles    models.Series
	cursor     Cursor
	resolution Resolution
	renderer   Renderer

	step     float64
	lastSpan float64
	stepSet  bool
	dirty    bool
}

// NewSession создает сессию над копией серии
func NewSession(series models.Series, opts Options) (*Session, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}
	s := &Session{
		candles:    series.Clone(),
		resolution: opts.Resolution,
		renderer:   NewRenderer(opts.Height, opts.CandleWidth, opts.Glyphs),
	}
	s.refreshStep()
	return s, nil
}

func (s *Session) navigator() Navigator {
	return Navigator{Candles: len(s.candles), Height: s.renderer.Height}
}

// refreshStep пересчитывает шаг, если изменился диапазон цен или режим
func (s *Session) refreshStep() {
	span := s.candles.Span()
	if s.stepSet && span == s.lastSpan {
		return
	}
	s.step = s.resolution.Step(s.candles)
	s.lastSpan = span
	s.stepSet = true
}

// Render отрисовывает текущую серию
func (s *Session) Render() Frame {
	return s.renderer.Render(s.candles)
}

// MoveCursor сдвигает курсор по оси, на краях курсор остается на месте
func (s *Session) MoveCursor(a Axis, d models.Direction) (Cursor, error) {
	if !d.Valid() {
		return s.cursor, fmt.Errorf("%w: %d", models.ErrInvalidDirection, int(d))
	}
	s.cursor = s.navigator().Move(s.cursor, a, d)
	s.refreshStep()
	return s.cursor, nil
}

// Adjust меняет поле свечи под курсором
func (s *Session) Adjust(f models.Field, d models.Direction) (models.Candle, Frame, error) {
	return s.AdjustAt(s.cursor.Candle, f, d)
}

// AdjustAt меняет поле свечи по индексу. При ошибке серия не меняется.
func (s *Session) AdjustAt(index int, f models.Field, d models.Direction) (models.Candle, Frame, error) {
	if index < 0 || index >= len(s.candles) {
		return models.Candle{}, Frame{}, fmt.Errorf("%w: %d из %d", models.ErrIndexOutOfRange, index, len(s.candles))
	}

	old := s.candles[index]
	updated, err := Adjust(old, f, d, s.step)
	if err != nil {
		return old, Frame{}, err
	}

	next := s.candles.Clone()
	next[index] = updated
	s.candles = next
	s.dirty = true
	s.refreshStep()

	logger.Debug("Свеча изменена",
		zap.Int("index", index),
		zap.Stringer("field", f),
		zap.Int("direction", int(d)),
		zap.Stringer("before", LegendOf(old)),
		zap.Stringer("after", LegendOf(updated)),
		zap.Float64("step", s.step))

	return updated, s.Render(), nil
}

// Step текущий шаг изменения
func (s *Session) Step() float64 {
	return s.step
}

func (s *Session) Resolution() Resolution {
	return s.resolution
}

// SetResolution переключает режим шага, ручной шаг переопределяет адаптивный
func (s *Session) SetResolution(r Resolution) {
	s.resolution = r
	s.stepSet = false
	s.refreshStep()
}

// Legend значения свечи для отображения
func (s *Session) Legend(index int) (Legend, error) {
	if index < 0 || index >= len(s.candles) {
		return Legend{}, fmt.Errorf("%w: %d из %d", models.ErrIndexOutOfRange, index, len(s.candles))
	}
	return LegendOf(s.candles[index]), nil
}

// CursorPrice цена строки под курсором
func (s *Session) CursorPrice() float64 {
	return s.renderer.ScaleFor(s.candles).Price(s.cursor.Row)
}

func (s *Session) Cursor() Cursor {
	return s.cursor
}

// Candles копия текущей серии
func (s *Session) Candles() models.Series {
	return s.candles.Clone()
}

func (s *Session) Len() int {
	return len(s.candles)
}

// Height высота сетки
func (s *Session) Height() int {
	return s.renderer.Height
}

// Dirty true, если есть несохраненные изменения
func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) MarkClean() {
	s.dirty = false
}

func (s *Session) State() State {
	return State{
		Candles:    s.candles.Clone(),
		Cursor:     s.cursor,
		Resolution: s.resolution,
		Step:       s.step,
	}
}

// Serialize таблица с заголовком open,high,low,close
func (s *Session) Serialize() [][]string {
	return models.EncodeRows(s.candles)
}

// Deserialize заменяет серию таблицей. Некорректные строки отклоняются
// целиком, текущая серия при этом остается прежней.
func (s *Session) Deserialize(rows [][]string) error {
	series, err := models.DecodeRows(rows)
	if err != nil {
		return fmt.Errorf("ошибка загрузки таблицы: %w", err)
	}
	s.replace(series)
	s.dirty = false
	return nil
}

// Replace заменяет серию после проверки инвариантов
func (s *Session) Replace(series models.Series) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("ошибка замены серии: %w", err)
	}
	s.replace(series.Clone())
	s.dirty = true
	return nil
}

func (s *Session) replace(series models.Series) {
	s.candles = series
	s.cursor = s.navigator().Clamp(s.cursor)
	s.refreshStep()
}

// InsertAfter вставляет копию свечи под курсором справа от нее
// и переводит курсор на новую свечу
func (s *Session) InsertAfter() models.Candle {
	c := models.Candle{Open: 100, High: 100, Low: 100, Close: 100}
	at := 0
	if len(s.candles) > 0 {
		c = s.candles[s.cursor.Candle]
		c.Time = time.Time{}
		at = s.cursor.Candle + 1
	}

	next := make(models.Series, 0, len(s.candles)+1)
	next = append(next, s.candles[:at]...)
	next = append(next, c)
	next = append(next, s.candles[at:]...)

	s.candles = next
	s.cursor.Candle = at
	s.dirty = true
	s.refreshStep()

	logger.Debug("Свеча вставлена", zap.Int("index", at))
	return c
}

// Delete удаляет свечу под курсором. Последнюю свечу удалить нельзя.
func (s *Session) Delete() error {
	if len(s.candles) <= 1 {
		return fmt.Errorf("ошибка удаления свечи: %w", models.ErrEmptySeries)
	}
	at := s.cursor.Candle

	next := make(models.Series, 0, len(s.candles)-1)
	next = append(next, s.candles[:at]...)
	next = append(next, s.candles[at+1:]...)

	s.candles = next
	s.cursor = s.navigator().Clamp(s.cursor)
	s.dirty = true
	s.refreshStep()

	logger.Debug("Свеча удалена", zap.Int("index", at))
	return nil
}

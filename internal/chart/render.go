package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/skalibog/candleedit/pkg/models"
)

// Размеры графика по умолчанию
const (
	DefaultHeight      = 10
	DefaultCandleWidth = 3
)

// Glyphs символы для отрисовки свечей
type Glyphs struct {
	Bullish rune
	Bearish rune
	Wick    rune
	Empty   rune
}

var (
	ASCIIGlyphs   = Glyphs{Bullish: '^', Bearish: 'v', Wick: '|', Empty: ' '}
	UnicodeGlyphs = Glyphs{Bullish: '█', Bearish: '▄', Wick: '│', Empty: ' '}
)

// GlyphsByName набор символов по имени из конфигурации
func GlyphsByName(name string) (Glyphs, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ascii":
		return ASCIIGlyphs, nil
	case "unicode":
		return UnicodeGlyphs, nil
	}
	return Glyphs{}, fmt.Errorf("неизвестный набор символов %q", name)
}

// Scale линейное отображение цены на строки сетки, общее для всей серии.
// Строка 0 сверху соответствует Max.
type Scale struct {
	Min    float64
	Max    float64
	Height int
}

// Flat true, если вся серия укладывается в одну строку
func (s Scale) Flat() bool {
	return s.Max == s.Min || s.Height <= 1
}

// Row строка для цены, ограниченная пределами сетки
func (s Scale) Row(price float64) int {
	if s.Flat() {
		return s.Height / 2
	}
	pos := (s.Max - price) / (s.Max - s.Min) * float64(s.Height-1)
	row := int(math.Round(pos))
	if row < 0 {
		return 0
	}
	if row > s.Height-1 {
		return s.Height - 1
	}
	return row
}

// Price цена, которую представляет строка
func (s Scale) Price(row int) float64 {
	if s.Flat() {
		return s.Max
	}
	return s.Max - float64(row)/float64(s.Height-1)*(s.Max-s.Min)
}

// Frame результат отрисовки: строки сетки и классификация каждой свечи
type Frame struct {
	Lines       []string
	Classes     []models.Class
	Scale       Scale
	CandleWidth int
}

func (f Frame) String() string {
	return strings.Join(f.Lines, "\n")
}

// Column колонка маркера свечи i
func (f Frame) Column(i int) int {
	return markerColumn(i, f.CandleWidth)
}

func markerColumn(i, width int) int {
	return i*width + width/2
}

// Renderer рисует серию в сетке фиксированной высоты
type Renderer struct {
	Height      int
	CandleWidth int
	Glyphs      Glyphs
}

func NewRenderer(height, candleWidth int, glyphs Glyphs) Renderer {
	if height < 1 {
		height = DefaultHeight
	}
	if candleWidth < 1 {
		candleWidth = DefaultCandleWidth
	}
	if glyphs == (Glyphs{}) {
		glyphs = ASCIIGlyphs
	}
	return Renderer{Height: height, CandleWidth: candleWidth, Glyphs: glyphs}
}

// ScaleFor масштаб по глобальному диапазону серии
func (r Renderer) ScaleFor(s models.Series) Scale {
	min, max, _ := s.PriceRange()
	return Scale{Min: min, Max: max, Height: r.Height}
}

// Render отрисовывает серию. Одинаковый вход дает одинаковый результат.
func (r Renderer) Render(s models.Series) Frame {
	r = NewRenderer(r.Height, r.CandleWidth, r.Glyphs)
	scale := r.ScaleFor(s)
	width := len(s) * r.CandleWidth

	grid := make([][]rune, r.Height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = r.Glyphs.Empty
		}
	}

	classes := make([]models.Class, len(s))
	for i, c := range s {
		col := markerColumn(i, r.CandleWidth)
		classes[i] = c.Class()

		// Сначала тень, тело поверх нее
		for row := scale.Row(c.High); row <= scale.Row(c.Low); row++ {
			grid[row][col] = r.Glyphs.Wick
		}
		body := r.Glyphs.Bullish
		if !c.Bullish() {
			body = r.Glyphs.Bearish
		}
		for row := scale.Row(c.BodyTop()); row <= scale.Row(c.BodyBottom()); row++ {
			grid[row][col] = body
		}
	}

	lines := make([]string, r.Height)
	for i, row := range grid {
		lines[i] = string(row)
	}

	return Frame{
		Lines:       lines,
		Classes:     classes,
		Scale:       scale,
		CandleWidth: r.CandleWidth,
	}
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/skalibog/candleedit/internal/analysis/technical"
	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/internal/storage"
	"github.com/skalibog/candleedit/pkg/logger"
	"github.com/skalibog/candleedit/pkg/models"
)

// Стили UI
var (
	// Основные цвета
	primaryColor   = lipgloss.Color("#0077cc")
	secondaryColor = lipgloss.Color("#333333")
	errorColor     = lipgloss.Color("#cc3300")
	successColor   = lipgloss.Color("#33cc33")
	warningColor   = lipgloss.Color("#cccc00")

	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primaryColor).
			Padding(0, 1)
	chartSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(secondaryColor).
				Padding(0, 1)
	bullishStyle = lipgloss.NewStyle().Foreground(successColor)
	bearishStyle = lipgloss.NewStyle().Foreground(errorColor)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	legendStyle  = lipgloss.NewStyle().Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	okStyle      = lipgloss.NewStyle().Foreground(successColor)
	dirtyStyle   = lipgloss.NewStyle().Foreground(warningColor)
	footerStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1)
)

const saveTimeout = 15 * time.Second

// TermUI терминальный редактор серии свечей
type TermUI struct {
	session    *chart.Session
	store      storage.Storage
	analyzer   *technical.Analyzer
	config     config.UIConfig
	seriesName string
	ctx        context.Context
	program    *tea.Program

	field       models.Field
	status      string
	statusErr   bool
	confirmQuit bool
	width       int
	height      int
}

// Сообщения для обновления UI
type savedMsg struct {
	candles int
	err     error
}

// bubbleModel - модель для bubbletea
type bubbleModel struct {
	ui *TermUI
}

// NewTermUI создает редактор. store может быть nil, тогда сохранение недоступно.
func NewTermUI(ctx context.Context, cfg config.UIConfig, session *chart.Session, store storage.Storage,
	analyzer *technical.Analyzer, seriesName string) *TermUI {
	return &TermUI{
		session:    session,
		store:      store,
		analyzer:   analyzer,
		config:     cfg,
		seriesName: seriesName,
		ctx:        ctx,
		field:      models.FieldClose,
		status:     "Готово",
		width:      120,
		height:     40,
	}
}

// Start запускает UI, блокирует до выхода
func (ui *TermUI) Start() error {
	opts := []tea.ProgramOption{tea.WithContext(ui.ctx)}
	if ui.config.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	ui.program = tea.NewProgram(bubbleModel{ui: ui}, opts...)

	if _, err := ui.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ошибка запуска UI: %w", err)
	}
	return nil
}

// Model модель bubbletea для встраивания и тестов
func (ui *TermUI) Model() tea.Model {
	return bubbleModel{ui: ui}
}

func (ui *TermUI) setStatus(msg string) {
	ui.status = msg
	ui.statusErr = false
}

func (ui *TermUI) setError(err error) {
	ui.status = err.Error()
	ui.statusErr = true
	logger.Warn("Операция отклонена", zap.Error(err))
}

// saveCmd сохраняет снимок серии вне цикла Update
func (ui *TermUI) saveCmd() tea.Cmd {
	if ui.store == nil {
		ui.setError(errors.New("хранилище не настроено"))
		return nil
	}
	snapshot := ui.session.Candles()
	store, name, parent := ui.store, ui.seriesName, ui.ctx

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, saveTimeout)
		defer cancel()
		err := store.SaveSeries(ctx, name, snapshot)
		return savedMsg{candles: len(snapshot), err: err}
	}
}

// Методы для bubbletea
func (m bubbleModel) Init() tea.Cmd {
	return nil
}

func (m bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ui := m.ui

	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key != "q" {
			ui.confirmQuit = false
		}

		switch key {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if ui.session.Dirty() && !ui.confirmQuit {
				ui.confirmQuit = true
				ui.setStatus("Есть несохраненные изменения: w - сохранить, q - выйти без сохранения")
				return m, nil
			}
			return m, tea.Quit

		case "h", "left":
			m.move(chart.AxisCandle, models.Down)
		case "l", "right":
			m.move(chart.AxisCandle, models.Up)
		case "k", "up":
			m.move(chart.AxisRow, models.Down)
		case "j", "down":
			m.move(chart.AxisRow, models.Up)

		case "o":
			ui.field = models.FieldOpen
		case "H":
			ui.field = models.FieldHigh
		case "L":
			ui.field = models.FieldLow
		case "c":
			ui.field = models.FieldClose

		case "+", "=":
			m.adjust(models.Up)
		case "-", "_":
			m.adjust(models.Down)

		case "r":
			ui.session.SetResolution(ui.session.Resolution().Next())
			ui.setStatus(fmt.Sprintf("Шаг: %s (%s)", ui.session.Resolution(), models.FormatPrice(ui.session.Step())))

		case "i":
			ui.session.InsertAfter()
			ui.setStatus(fmt.Sprintf("Свеча %d вставлена", ui.session.Cursor().Candle+1))
		case "x":
			at := ui.session.Cursor().Candle
			if err := ui.session.Delete(); err != nil {
				ui.setError(err)
			} else {
				ui.setStatus(fmt.Sprintf("Свеча %d удалена", at+1))
			}

		case "w":
			ui.setStatus("Сохранение...")
			return m, ui.saveCmd()
		}

	case savedMsg:
		if msg.err != nil {
			ui.setError(msg.err)
			return m, nil
		}
		ui.session.MarkClean()
		ui.setStatus(fmt.Sprintf("Сохранено %d свечей в %s", msg.candles, ui.seriesName))

	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
	}

	return m, nil
}

func (m bubbleModel) move(a chart.Axis, d models.Direction) {
	if _, err := m.ui.session.MoveCursor(a, d); err != nil {
		m.ui.setError(err)
	}
}

func (m bubbleModel) adjust(d models.Direction) {
	ui := m.ui
	if ui.session.Len() == 0 {
		ui.setError(models.ErrEmptySeries)
		return
	}
	c, _, err := ui.session.Adjust(ui.field, d)
	if err != nil {
		ui.setError(err)
		return
	}
	ui.setStatus(fmt.Sprintf("%s = %s", ui.field, models.FormatPrice(c.Get(ui.field))))
}

func (m bubbleModel) View() string {
	ui := m.ui
	frame := ui.session.Render()
	cursor := ui.session.Cursor()

	title := titleStyle.Render(fmt.Sprintf("candleedit - %s", ui.seriesName))
	chartView := chartSectionStyle.Render(renderFrame(frame, cursor))

	info := []string{renderLegend(ui.session, cursor), renderPosition(ui, cursor)}
	if ui.config.ShowStats && ui.analyzer != nil {
		info = append(info, renderStats(ui.analyzer.Analyze(ui.session.Candles())))
	}
	info = append(info, renderStatus(ui))

	footer := footerStyle.Render("h/l свеча, j/k строка, o/H/L/c поле, +/- изменить, r шаг, i/x вставить/удалить, w сохранить, q выход")

	return appStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			chartView,
			strings.Join(info, "\n"),
			footer,
		),
	)
}

// renderFrame раскрашивает колонки по классу свечи и выделяет курсор
func renderFrame(frame chart.Frame, cursor chart.Cursor) string {
	if len(frame.Classes) == 0 {
		return infoStyle.Render("Нет данных")
	}

	cursorCol := frame.Column(cursor.Candle)
	var b strings.Builder
	for row, line := range frame.Lines {
		for col, r := range []rune(line) {
			cell := string(r)
			style, styled := cellStyle(frame, col)
			switch {
			case row == cursor.Row && col == cursorCol:
				cell = cursorStyle.Render(cell)
			case styled && r != ' ':
				cell = style.Render(cell)
			}
			b.WriteString(cell)
		}
		if row < len(frame.Lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func cellStyle(frame chart.Frame, col int) (lipgloss.Style, bool) {
	if frame.CandleWidth <= 0 {
		return lipgloss.Style{}, false
	}
	i := col / frame.CandleWidth
	if i >= len(frame.Classes) || frame.Column(i) != col {
		return lipgloss.Style{}, false
	}
	if frame.Classes[i] == models.ClassBearish {
		return bearishStyle, true
	}
	return bullishStyle, true
}

func renderLegend(s *chart.Session, cursor chart.Cursor) string {
	legend, err := s.Legend(cursor.Candle)
	if err != nil {
		return infoStyle.Render("-")
	}
	return legendStyle.Render(legend.String())
}

func renderPosition(ui *TermUI, cursor chart.Cursor) string {
	s := ui.session
	return infoStyle.Render(fmt.Sprintf("свеча %d/%d  строка %d  цена %s  поле %s  шаг %s (%s)",
		cursor.Candle+1, s.Len(), cursor.Row,
		models.FormatPriceFixed(s.CursorPrice(), 2),
		ui.field, models.FormatPrice(s.Step()), s.Resolution()))
}

func renderStats(st technical.Stats) string {
	parts := []string{
		"SMA " + statValue(st.SMA, st.SMAOK),
		"ATR " + statValue(st.ATR, st.ATROK),
		"RSI " + statValue(st.RSI, st.RSIOK),
	}
	return infoStyle.Render(strings.Join(parts, "  "))
}

func statValue(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return models.FormatPriceFixed(v, 2)
}

func renderStatus(ui *TermUI) string {
	status := okStyle.Render(ui.status)
	if ui.statusErr {
		status = errorStyle.Render(ui.status)
	}
	if ui.session.Dirty() {
		status = dirtyStyle.Render("[изменено] ") + status
	}
	return status
}

package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skalibog/candleedit/internal/analysis/technical"
	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
	"github.com/skalibog/candleedit/pkg/models"
)

type memStore struct {
	saved map[string]models.Series
}

func (m *memStore) LoadSeries(_ context.Context, name string) (models.Series, error) {
	return m.saved[name], nil
}

func (m *memStore) SaveSeries(_ context.Context, name string, s models.Series) error {
	m.saved[name] = s
	return nil
}

func (m *memStore) Close() {}

func newTestUI(t *testing.T, store *memStore) (*TermUI, tea.Model) {
	t.Helper()
	session, err := chart.NewSession(chart.SampleSeries(), chart.DefaultOptions())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	analyzer := technical.NewAnalyzer(config.Default().Analysis)
	var ui *TermUI
	if store == nil {
		ui = NewTermUI(context.Background(), config.UIConfig{ShowStats: true}, session, nil, analyzer, "sample")
	} else {
		ui = NewTermUI(context.Background(), config.UIConfig{ShowStats: true}, session, store, analyzer, "sample")
	}
	return ui, ui.Model()
}

func press(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return m, cmd
}

func TestUpdate_MoveAndAdjust(t *testing.T) {
	ui, m := newTestUI(t, nil)

	m, _ = press(m, "l", "+")
	if ui.session.Cursor().Candle != 1 {
		t.Fatalf("cursor = %+v", ui.session.Cursor())
	}
	if got := ui.session.Candles()[1].Close; got != 111 {
		t.Fatalf("close = %v, want 111", got)
	}

	press(m, "o", "-")
	if got := ui.session.Candles()[1].Open; got != 104 {
		t.Fatalf("open = %v, want 104", got)
	}
	if ui.statusErr {
		t.Fatalf("unexpected error status: %s", ui.status)
	}
	if !ui.session.Dirty() {
		t.Fatal("session must be dirty")
	}
}

func TestUpdate_FieldKeys(t *testing.T) {
	ui, m := newTestUI(t, nil)
	for key, want := range map[string]models.Field{
		"o": models.FieldOpen,
		"H": models.FieldHigh,
		"L": models.FieldLow,
		"c": models.FieldClose,
	} {
		m, _ = press(m, key)
		if ui.field != want {
			t.Errorf("key %q selected %s, want %s", key, ui.field, want)
		}
	}
}

func TestUpdate_ResolutionCycle(t *testing.T) {
	ui, m := newTestUI(t, nil)
	press(m, "r")
	if ui.session.Resolution() != chart.ResolutionFine || ui.session.Step() != chart.StepFine {
		t.Fatalf("resolution %s, step %v", ui.session.Resolution(), ui.session.Step())
	}
}

func TestUpdate_SaveWithoutStore(t *testing.T) {
	ui, m := newTestUI(t, nil)
	_, cmd := press(m, "w")
	if cmd != nil {
		t.Fatal("no command expected without store")
	}
	if !ui.statusErr {
		t.Fatal("expected error status")
	}
}

func TestUpdate_SaveMarksClean(t *testing.T) {
	store := &memStore{saved: map[string]models.Series{}}
	ui, m := newTestUI(t, store)

	m, _ = press(m, "+")
	m, cmd := press(m, "w")
	if cmd == nil {
		t.Fatal("expected save command")
	}
	msg := cmd()
	if _, ok := msg.(savedMsg); !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	m.Update(msg)

	if ui.session.Dirty() {
		t.Fatal("session must be clean after save")
	}
	if got := store.saved["sample"]; len(got) != 5 || got[0].Close != 106 {
		t.Fatalf("saved = %v", got)
	}
}

func TestUpdate_QuitConfirmation(t *testing.T) {
	ui, m := newTestUI(t, nil)

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("clean session quits at once")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit")
	}

	m, _ = press(m, "+")
	m, cmd = press(m, "q")
	if cmd != nil || !ui.confirmQuit {
		t.Fatal("dirty session must ask before quitting")
	}
	_, cmd = press(m, "q")
	if cmd == nil {
		t.Fatal("second q must quit")
	}
}

func TestUpdate_DeleteLastCandle(t *testing.T) {
	ui, m := newTestUI(t, nil)
	for i := 0; i < 5; i++ {
		m, _ = press(m, "x")
	}
	if ui.session.Len() != 1 || !ui.statusErr {
		t.Fatalf("len %d, status %q", ui.session.Len(), ui.status)
	}
	press(m, "i")
	if ui.session.Len() != 2 {
		t.Fatalf("len after insert = %d", ui.session.Len())
	}
}

func TestView(t *testing.T) {
	_, m := newTestUI(t, nil)
	view := m.View()
	for _, want := range []string{"candleedit - sample", "open:100.0,high:108.0,low:98.0,close:105.0", "SMA"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
}

func TestRenderFrame_Empty(t *testing.T) {
	out := renderFrame(chart.Frame{}, chart.Cursor{})
	if !strings.Contains(out, "Нет данных") {
		t.Fatalf("output = %q", out)
	}
}

package chart

import (
	"fmt"
	"strings"

	"github.com/skalibog/candleedit/pkg/models"
)

// Шаги изменения цены
const (
	StepFine   = 0.25
	StepNormal = 1.0
	StepCoarse = 10.0
)

// Resolution режим выбора шага: адаптивный или ручной
type Resolution int

const (
	ResolutionAuto Resolution = iota
	ResolutionFine
	ResolutionNormal
	ResolutionCoarse
)

var resolutionNames = [...]string{"auto", "fine", "normal", "coarse"}

func (r Resolution) String() string {
	if r < ResolutionAuto || r > ResolutionCoarse {
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
	return resolutionNames[r]
}

// ParseResolution разбирает имя режима из конфигурации или от хоста
func ParseResolution(name string) (Resolution, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ResolutionAuto, nil
	}
	for i, rn := range resolutionNames {
		if rn == n {
			return Resolution(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестный режим шага %q", name)
}

// Next следующий режим по кругу
func (r Resolution) Next() Resolution {
	return (r + 1) % Resolution(len(resolutionNames))
}

// Step шаг для серии в данном режиме
func (r Resolution) Step(s models.Series) float64 {
	switch r {
	case ResolutionFine:
		return StepFine
	case ResolutionNormal:
		return StepNormal
	case ResolutionCoarse:
		return StepCoarse
	default:
		return StepForRange(s.Span())
	}
}

// StepForRange адаптивный шаг по ширине ценового диапазона
func StepForRange(span float64) float64 {
	switch {
	case span < 10:
		return StepFine
	case span <= 100:
		return StepNormal
	default:
		return StepCoarse
	}
}

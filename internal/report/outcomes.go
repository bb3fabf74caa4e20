package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cookierisk/internal/dispatch"
	"cookierisk/internal/scoring"
)

const defaultBarWidth = 10

// Options controls outcome rendering.
type Options struct {
	Colorize bool
	// BarWidth is the number of cells a 100% probability fills.
	BarWidth int
}

// Title returns a label in title case, e.g. "very high" -> "Very High".
func Title(label string) string {
	return cases.Title(language.English).String(label)
}

// RiskLine describes one outcome the way the result list shows it.
func RiskLine(outcome dispatch.Outcome) string {
	if !outcome.OK {
		return "Error - " + outcome.Error
	}
	return fmt.Sprintf("Risk level: %d (%s)", outcome.Prediction.PredictedClass, Title(outcome.Label()))
}

// Percent formats a probability as a percentage with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// Bar draws a horizontal bar proportional to p.
func Bar(p float64, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Outcomes renders one row per outcome: name, risk level, label and a
// probability column per class. Failed items span the row with their error.
func Outcomes(outcomes []dispatch.Outcome, opts Options) string {
	headers := []string{"Cookie", "Level", "Risk"}
	aligns := []Alignment{AlignLeft, AlignRight, AlignLeft}
	for _, label := range scoring.Labels {
		headers = append(headers, Title(label))
		aligns = append(aligns, AlignLeft)
	}

	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.OK {
			rows = append(rows, []string{outcome.Name, "-", colorize(RiskLine(outcome), text.FgRed, opts.Colorize)})
			continue
		}
		class := outcome.Prediction.PredictedClass
		row := []string{
			outcome.Name,
			fmt.Sprintf("%d", class),
			colorize(Title(outcome.Label()), classColor(class), opts.Colorize),
		}
		for i, p := range outcome.Prediction.Probabilities {
			cell := Percent(p) + " " + Bar(p, opts.BarWidth)
			if i == class {
				cell = colorize(cell, classColor(class), opts.Colorize)
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return RenderTable(headers, rows, aligns)
}

// Summary reports how many outcomes succeeded and failed.
func Summary(outcomes []dispatch.Outcome) string {
	succeeded, failed := dispatch.Summary(outcomes)
	return fmt.Sprintf("%d scored, %d failed", succeeded, failed)
}

func classColor(class int) text.Color {
	switch class {
	case 0:
		return text.FgGreen
	case 1:
		return text.FgHiGreen
	case 2:
		return text.FgYellow
	case 3:
		return text.FgHiRed
	default:
		return text.FgRed
	}
}

func colorize(value string, color text.Color, enabled bool) string {
	if !enabled {
		return value
	}
	return color.Sprint(value)
}

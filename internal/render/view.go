// Package render turns the current panel into what the user sees: a
// headline view, a probability bar chart and a terminal rendering.
package render

import (
	"fmt"
	"strconv"

	"DigitBoard/internal/predict"
	"DigitBoard/internal/state"
)

// ChartTitle is shown above the probability bars.
const ChartTitle = "Prediction Probabilities"

// View is the deterministic description of the result area.
type View struct {
	Kind       state.Kind
	Digit      string // predicted class, set for KindResult
	Confidence string // e.g. "93.00%", set for KindResult
	Message    string // placeholder or error text
	Notice     string // error kept beside a previous result
	Bars       []Bar  // nil unless there are probabilities to chart
}

// Describe builds the view for p.
func Describe(p state.Panel) View {
	switch p := p.(type) {
	case state.Showing:
		v := View{
			Kind:       state.KindResult,
			Digit:      strconv.Itoa(p.Result.Prediction),
			Confidence: Percent(p.Result.Confidence),
			Notice:     p.Notice,
		}
		if len(p.Result.Probabilities) > 0 {
			v.Bars = Bars(p.Result.Probabilities)
		}
		return v
	case state.Failed:
		return View{Kind: state.KindFailed, Message: p.Message}
	default:
		return View{Kind: state.KindPlaceholder, Message: state.PlaceholderText}
	}
}

// Percent formats a [0,1] confidence with two decimals.
func Percent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

// Bar is one class on the probability chart, scaled to 0-100.
type Bar struct {
	Label string
	Value float64
}

// Bars returns one bar per class in ascending label order no matter how
// the service ordered its keys. Classes the service left out chart as 0.
func Bars(probs map[string]float64) []Bar {
	bars := make([]Bar, predict.NumClasses)
	for i := range bars {
		label := strconv.Itoa(i)
		bars[i] = Bar{Label: label, Value: probs[label] * 100}
	}
	return bars
}

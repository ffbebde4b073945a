package state

import (
	"DigitBoard/internal/predict"
)

// FailureMessage is what the user sees for any failed prediction.
const FailureMessage = "Failed to predict. Please ensure the backend is running."

// Placeholder text shown before the first prediction.
const PlaceholderText = "Draw a digit on the canvas and click Predict to see the AI's prediction"

type Kind int

const (
	KindPlaceholder Kind = iota
	KindResult
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindResult:
		return "result"
	case KindFailed:
		return "failed"
	default:
		return "placeholder"
	}
}

// Panel is what the result area shows. Exactly one of Placeholder, Showing
// or Failed is ever current, so result and error cannot be mixed up.
type Panel interface {
	Kind() Kind
}

type Placeholder struct{}

// Showing holds a prediction. Notice is set when a later request failed
// and the error policy asked to keep the last result on screen.
type Showing struct {
	Result predict.Result
	Notice string
}

type Failed struct {
	Message string
}

func (Placeholder) Kind() Kind { return KindPlaceholder }
func (Showing) Kind() Kind     { return KindResult }
func (Failed) Kind() Kind      { return KindFailed }

// Cleared is the panel after the canvas is wiped.
func Cleared() Panel { return Placeholder{} }

// Started is the panel while a request is outstanding: any previous error
// goes away, a previous result stays.
func Started(prev Panel) Panel {
	switch p := prev.(type) {
	case Showing:
		p.Notice = ""
		return p
	default:
		return Placeholder{}
	}
}

// Succeeded is the panel after the service answered.
func Succeeded(res predict.Result) Panel { return Showing{Result: res} }

// FailedWith is the panel after a request failed. With keep set a previous
// result stays on screen and carries the message as a notice.
func FailedWith(prev Panel, msg string, keep bool) Panel {
	if s, ok := prev.(Showing); ok && keep {
		s.Notice = msg
		return s
	}
	return Failed{Message: msg}
}

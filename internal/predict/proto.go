package predict

import (
	"context"
	"strconv"
)

// NumClasses is the number of digit classes the service scores.
const NumClasses = 10

// Predictor represents the remote prediction service.
type Predictor interface {
	// Predict classifies the digit in a PNG data URL.
	Predict(ctx context.Context, image string) (Result, error)
}

// Request is the body posted to /api/predict.
type Request struct {
	Image string `json:"image"` // data:image/png;base64,...
}

// Result is a successful classification.
type Result struct {
	Prediction    int                `json:"prediction"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

func (r Result) validate() error {
	if r.Prediction < 0 || r.Prediction >= NumClasses {
		return malformedf("prediction %d out of range", r.Prediction)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return malformedf("confidence %v out of range", r.Confidence)
	}
	for k, p := range r.Probabilities {
		if !isLabel(k) {
			return malformedf("unknown class label %q", k)
		}
		if p < 0 || p > 1 {
			return malformedf("probability %v for %q out of range", p, k)
		}
	}
	return nil
}

// isLabel reports whether k is one of the class labels "0".."9" spelled
// exactly as the chart looks them up.
func isLabel(k string) bool {
	n, err := strconv.Atoi(k)
	return err == nil && n >= 0 && n < NumClasses && strconv.Itoa(n) == k
}

// Health mirrors /api/health.
type Health struct {
	Status      string `json:"status" yaml:"status"`
	ModelLoaded bool   `json:"model_loaded" yaml:"model_loaded"`
}

// Ready reports whether the service can answer predictions.
func (h Health) Ready() bool { return h.Status == "healthy" && h.ModelLoaded }

// ModelInfo mirrors /api/model-info.
type ModelInfo struct {
	InputShape  string `json:"input_shape" yaml:"input_shape"`
	OutputShape string `json:"output_shape" yaml:"output_shape"`
	TotalParams int64  `json:"total_params" yaml:"total_params"`
}

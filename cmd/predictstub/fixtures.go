package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"DigitBoard/internal/predict"
)

// fixtures is what the stub answers with. A file only needs the keys it
// wants to change.
type fixtures struct {
	Health     predict.Health    `yaml:"health"`
	ModelInfo  predict.ModelInfo `yaml:"model_info"`
	Prediction prediction        `yaml:"prediction"`
}

type prediction struct {
	Digit         int                `yaml:"digit"`
	Confidence    float64            `yaml:"confidence"`
	Probabilities map[string]float64 `yaml:"probabilities"`
}

func defaultFixtures() fixtures {
	return fixtures{
		Health: predict.Health{Status: "healthy", ModelLoaded: true},
		ModelInfo: predict.ModelInfo{
			InputShape:  "(None, 28, 28, 1)",
			OutputShape: "(None, 10)",
			TotalParams: 225034,
		},
		Prediction: prediction{
			Digit:      7,
			Confidence: 0.93,
			Probabilities: map[string]float64{
				"0": 0.01, "1": 0.0, "2": 0.01, "3": 0.0, "4": 0.0,
				"5": 0.0, "6": 0.0, "7": 0.93, "8": 0.04, "9": 0.01,
			},
		},
	}
}

func loadFixtures(path string) (fixtures, error) {
	f := defaultFixtures()
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtures{}, errors.Wrap(err, "read fixtures")
	}
	// yaml merges into a non-nil map; a file's probabilities replace ours
	defaults := f.Prediction.Probabilities
	f.Prediction.Probabilities = nil
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fixtures{}, errors.Wrapf(err, "parse fixtures %s", path)
	}
	if f.Prediction.Probabilities == nil {
		f.Prediction.Probabilities = defaults
	}
	if f.Prediction.Digit < 0 || f.Prediction.Digit >= predict.NumClasses {
		return fixtures{}, errors.Errorf("fixture digit %d out of range", f.Prediction.Digit)
	}
	return f, nil
}

func (p prediction) result() predict.Result {
	return predict.Result{
		Prediction:    p.Digit,
		Confidence:    p.Confidence,
		Probabilities: p.Probabilities,
	}
}

package scoring

import "fmt"

// InvalidFactorError is returned when a subscore has no matching weight.
type InvalidFactorError struct {
	Factor string
}

func (e *InvalidFactorError) Error() string {
	return fmt.Sprintf("no weight defined for factor %q", e.Factor)
}

// Model combines named [0,1] sub-scores under a weight table. The model is
// pure: it holds no state beyond the weights given at construction.
type Model struct {
	weights map[string]float64
}

// NewModel creates a weighted-factor model. Weights need not sum to 1; the
// combined score is clamped to [0,1].
func NewModel(weights map[string]float64) *Model {
	w := make(map[string]float64, len(weights))
	for k, v := range weights {
		w[k] = v
	}
	return &Model{weights: w}
}

// NewNormalizedModel rescales the weight table to sum to 1 so the combined
// score of in-range sub-scores stays bounded without clamping.
func NewNormalizedModel(weights map[string]float64) *Model {
	var sum float64
	for _, v := range weights {
		sum += v
	}
	if sum == 0 {
		return NewModel(weights)
	}
	w := make(map[string]float64, len(weights))
	for k, v := range weights {
		w[k] = v / sum
	}
	return &Model{weights: w}
}

// Combine computes the weighted sum of subscores, clamped to [0,1]. Every
// subscore key must have a weight.
func (m *Model) Combine(subscores map[string]float64) (float64, error) {
	var total float64
	for factor, score := range subscores {
		weight, ok := m.weights[factor]
		if !ok {
			return 0, &InvalidFactorError{Factor: factor}
		}
		total += score * weight
	}
	return clamp01(total), nil
}

// Weight returns the effective weight for a factor.
func (m *Model) Weight(factor string) float64 {
	return m.weights[factor]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

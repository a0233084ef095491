package mlfilter

import (
	"math"
	"time"
)

// Model is a regularized logistic regression over standardized features,
// persisted as plain JSON weights. One model per bet type.
type Model struct {
	Weights  []float64 `json:"weights"`
	Bias     float64   `json:"bias"`
	Means    []float64 `json:"means"`
	Stds     []float64 `json:"stds"`
	Samples  int       `json:"samples"`
	Accuracy float64   `json:"accuracy"`

	TrainedAt time.Time `json:"trained_at"`
}

const (
	fitEpochs       = 500
	fitLearningRate = 0.1
	fitL2           = 0.001
)

// fit trains by full-batch gradient descent. No shuffling and a fixed
// starting point keep training deterministic for identical inputs.
func fit(features [][]float64, labels []float64) *Model {
	n := len(features)
	if n == 0 {
		return nil
	}
	dim := len(features[0])

	means := make([]float64, dim)
	stds := make([]float64, dim)
	for j := 0; j < dim; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += features[i][j]
		}
		means[j] = sum / float64(n)

		variance := 0.0
		for i := 0; i < n; i++ {
			d := features[i][j] - means[j]
			variance += d * d
		}
		stds[j] = math.Sqrt(variance / float64(n))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	scaled := make([][]float64, n)
	for i := 0; i < n; i++ {
		scaled[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			scaled[i][j] = (features[i][j] - means[j]) / stds[j]
		}
	}

	weights := make([]float64, dim)
	bias := 0.0
	grad := make([]float64, dim)

	for epoch := 0; epoch < fitEpochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		biasGrad := 0.0

		for i := 0; i < n; i++ {
			p := sigmoid(dot(weights, scaled[i]) + bias)
			residual := p - labels[i]
			for j := 0; j < dim; j++ {
				grad[j] += residual * scaled[i][j]
			}
			biasGrad += residual
		}

		for j := 0; j < dim; j++ {
			weights[j] -= fitLearningRate * (grad[j]/float64(n) + fitL2*weights[j])
		}
		bias -= fitLearningRate * biasGrad / float64(n)
	}

	correct := 0
	for i := 0; i < n; i++ {
		p := sigmoid(dot(weights, scaled[i]) + bias)
		if (p >= 0.5) == (labels[i] == 1) {
			correct++
		}
	}

	return &Model{
		Weights:   weights,
		Bias:      bias,
		Means:     means,
		Stds:      stds,
		Samples:   n,
		Accuracy:  math.Round(float64(correct)/float64(n)*10000) / 10000,
		TrainedAt: time.Now().UTC(),
	}
}

// Predict returns the win probability for one raw feature vector.
func (m *Model) Predict(features []float64) float64 {
	z := m.Bias
	for j := 0; j < len(m.Weights) && j < len(features); j++ {
		std := m.Stds[j]
		if std == 0 {
			std = 1
		}
		z += m.Weights[j] * (features[j] - m.Means[j]) / std
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

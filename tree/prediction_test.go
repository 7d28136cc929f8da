package tree

import (
	"context"
	"math"
	"testing"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

func TestPredictionString(t *testing.T) {
	p := NewPrediction(map[string]int{"Apple": 2, "Lime": 1})
	if s := p.String(); s != "Apple: 66%, Lime: 33%" {
		t.Errorf("expected truncated percentages 'Apple: 66%%, Lime: 33%%', got %q", s)
	}
}

func TestPredictionStringSortsLabels(t *testing.T) {
	p := NewPrediction(map[string]int{"Lime": 1, "Apple": 1, "Lemon": 2})
	if s := p.String(); s != "Apple: 25%, Lemon: 50%, Lime: 25%" {
		t.Errorf("expected labels in lexicographic order, got %q", s)
	}
}

func TestPredictionWeightAndCounts(t *testing.T) {
	p := NewPrediction(map[string]int{"Apple": 2, "Lime": 1})
	if p.Weight() != 3 {
		t.Errorf("expected weight 3, got %d", p.Weight())
	}
	if p.CountOf("Apple") != 2 {
		t.Errorf("expected 2 Apples, got %d", p.CountOf("Apple"))
	}
	if p.CountOf("Lemon") != 0 {
		t.Errorf("expected 0 Lemons, got %d", p.CountOf("Lemon"))
	}
	if prob := p.ProbabilityOf("Lime"); math.Abs(prob-1.0/3.0) > 1e-9 {
		t.Errorf("expected Lime probability 1/3, got %f", prob)
	}
}

func TestPredictionPredictedValue(t *testing.T) {
	p := NewPrediction(map[string]int{"Apple": 2, "Lime": 1})
	v, prob := p.PredictedValue()
	if v != "Apple" {
		t.Errorf("expected Apple as predicted value, got %s", v)
	}
	if math.Abs(prob-2.0/3.0) > 1e-9 {
		t.Errorf("expected probability 2/3, got %f", prob)
	}
}

func TestNewPredictionFromDataset(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"fruit": "Apple"}),
		dataset.NewSample(map[string]interface{}{"fruit": "Apple"}),
		dataset.NewSample(map[string]interface{}{"fruit": "Lime"}),
	}
	p, err := NewPredictionFromDataset(context.Background(), dataset.NewMemoryIntensive(samples), label)
	if err != nil {
		t.Fatalf("building prediction: %v", err)
	}
	if p.Weight() != 3 || p.CountOf("Apple") != 2 || p.CountOf("Lime") != 1 {
		t.Errorf("expected distribution Apple:2 Lime:1, got %v", p)
	}
}

func TestNewPredictionFromEmptyDataset(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	_, err := NewPredictionFromDataset(context.Background(), dataset.NewMemoryIntensive(nil), label)
	if err != ErrCannotPredictFromEmptySet {
		t.Fatalf("expected ErrCannotPredictFromEmptySet, got %v", err)
	}
}

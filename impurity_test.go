package canopy

import (
	"context"
	"math"
	"testing"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

func fruitDataset(labels ...string) dataset.Dataset {
	samples := make([]dataset.Sample, 0, len(labels))
	for _, l := range labels {
		samples = append(samples, dataset.NewSample(map[string]interface{}{"fruit": l}))
	}
	return dataset.NewMemoryIntensive(samples)
}

func TestGiniImpurityPureDataset(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	impurity, err := GiniImpurity(context.Background(), fruitDataset("Apple", "Apple", "Apple"), label)
	if err != nil {
		t.Fatalf("computing impurity: %v", err)
	}
	if impurity != 0.0 {
		t.Errorf("expected 0 impurity for a single-label dataset, got %f", impurity)
	}
}

func TestGiniImpurityMixedDataset(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	impurity, err := GiniImpurity(context.Background(), fruitDataset("Apple", "Apple", "Lime"), label)
	if err != nil {
		t.Fatalf("computing impurity: %v", err)
	}
	expected := 1.0 - 4.0/9.0 - 1.0/9.0
	if math.Abs(impurity-expected) > 1e-9 {
		t.Errorf("expected impurity %f, got %f", expected, impurity)
	}
}

func TestGiniImpurityEvenlyMixedDataset(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	impurity, err := GiniImpurity(context.Background(), fruitDataset("Apple", "Lime"), label)
	if err != nil {
		t.Fatalf("computing impurity: %v", err)
	}
	if math.Abs(impurity-0.5) > 1e-9 {
		t.Errorf("expected impurity 0.5, got %f", impurity)
	}
}

func TestInformationGainPerfectSplit(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	gain, err := InformationGain(
		context.Background(),
		fruitDataset("Apple", "Apple"),
		fruitDataset("Lime", "Lime"),
		0.5,
		label)
	if err != nil {
		t.Fatalf("computing gain: %v", err)
	}
	if math.Abs(gain-0.5) > 1e-9 {
		t.Errorf("expected gain 0.5 for a perfect split, got %f", gain)
	}
}

func TestInformationGainUselessSplit(t *testing.T) {
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	gain, err := InformationGain(
		context.Background(),
		fruitDataset("Apple", "Lime"),
		fruitDataset("Apple", "Lime"),
		0.5,
		label)
	if err != nil {
		t.Fatalf("computing gain: %v", err)
	}
	if math.Abs(gain) > 1e-9 {
		t.Errorf("expected 0 gain for a split with the parent's distribution on both sides, got %f", gain)
	}
}

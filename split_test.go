package canopy

import (
	"context"
	"testing"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

var (
	testColor = feature.NewCategoricalFeature("color", []string{"Red", "Green", "Yellow"})
	testSize  = feature.NewNumericFeature("size")
	testFruit = feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime", "Lemon"})
)

func testSamples() []dataset.Sample {
	rows := []struct {
		color string
		size  float64
		fruit string
	}{
		{"Red", 60.0, "Apple"},
		{"Green", 40.0, "Lime"},
		{"Red", 55.0, "Apple"},
		{"Yellow", 65.0, "Lemon"},
	}
	samples := make([]dataset.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, dataset.NewSample(map[string]interface{}{
			"color": r.color,
			"size":  r.size,
			"fruit": r.fruit,
		}))
	}
	return samples
}

func TestCandidateQuestionsDeduplicatesValues(t *testing.T) {
	s := dataset.NewMemoryIntensive(testSamples())
	questions, err := CandidateQuestions(context.Background(), s, testColor)
	if err != nil {
		t.Fatalf("generating candidate questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 candidate questions for 3 distinct colors, got %d", len(questions))
	}
	expectedValues := []string{"Red", "Green", "Yellow"}
	for i, q := range questions {
		eq, ok := q.(*feature.EqualityQuestion)
		if !ok {
			t.Fatalf("expected equality question for categorical feature, got %T", q)
		}
		if eq.Value() != expectedValues[i] {
			t.Errorf("expected question %d to ask about %s, got %s", i, expectedValues[i], eq.Value())
		}
	}
}

func TestCandidateQuestionsNumericThresholds(t *testing.T) {
	s := dataset.NewMemoryIntensive(testSamples())
	questions, err := CandidateQuestions(context.Background(), s, testSize)
	if err != nil {
		t.Fatalf("generating candidate questions: %v", err)
	}
	expectedThresholds := []float64{60.0, 40.0, 55.0, 65.0}
	if len(questions) != len(expectedThresholds) {
		t.Fatalf("expected %d candidate questions, got %d", len(expectedThresholds), len(questions))
	}
	for i, q := range questions {
		tq, ok := q.(*feature.ThresholdQuestion)
		if !ok {
			t.Fatalf("expected threshold question for numeric feature, got %T", q)
		}
		if tq.Threshold() != expectedThresholds[i] {
			t.Errorf("expected question %d threshold %v, got %v", i, expectedThresholds[i], tq.Threshold())
		}
	}
}

func TestPartitionPreservesSamplesAndOrder(t *testing.T) {
	ctx := context.Background()
	s := dataset.NewMemoryIntensive(testSamples())
	q := feature.NewEqualityQuestion(testColor, "Red")
	matching, rest, err := Partition(ctx, q, s)
	if err != nil {
		t.Fatalf("partitioning: %v", err)
	}
	matchingCount, err := matching.Count(ctx)
	if err != nil {
		t.Fatalf("counting matching side: %v", err)
	}
	restCount, err := rest.Count(ctx)
	if err != nil {
		t.Fatalf("counting rest side: %v", err)
	}
	if matchingCount != 2 || restCount != 2 {
		t.Fatalf("expected 2/2 partition, got %d/%d", matchingCount, restCount)
	}
	restSamples, err := rest.Samples(ctx)
	if err != nil {
		t.Fatalf("reading rest samples: %v", err)
	}
	expectedFruits := []string{"Lime", "Lemon"}
	for i, sample := range restSamples {
		v, err := sample.ValueFor(testFruit)
		if err != nil {
			t.Fatalf("reading sample value: %v", err)
		}
		if v != expectedFruits[i] {
			t.Errorf("expected rest sample %d to be a %s, got %v", i, expectedFruits[i], v)
		}
	}
}

func TestFindBestSplitFindsUsefulQuestion(t *testing.T) {
	ctx := context.Background()
	s := dataset.NewMemoryIntensive(testSamples())
	gain, q, err := FindBestSplit(ctx, s, []feature.Feature{testColor, testSize}, testFruit)
	if err != nil {
		t.Fatalf("finding best split: %v", err)
	}
	if q == nil {
		t.Fatal("expected a question, got nil")
	}
	if gain <= 0 {
		t.Errorf("expected positive gain, got %f", gain)
	}
}

func TestFindBestSplitTieBreakIsFirstSeen(t *testing.T) {
	// Both color and shape split the two samples perfectly. The
	// question enumerated first must win on every run.
	color := feature.NewCategoricalFeature("color", []string{"Red", "Green"})
	shape := feature.NewCategoricalFeature("shape", []string{"Round", "Oval"})
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"color": "Red", "shape": "Round", "fruit": "Apple"}),
		dataset.NewSample(map[string]interface{}{"color": "Green", "shape": "Oval", "fruit": "Lime"}),
	}
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		s := dataset.NewMemoryIntensive(samples)
		_, q, err := FindBestSplit(ctx, s, []feature.Feature{color, shape}, label)
		if err != nil {
			t.Fatalf("finding best split: %v", err)
		}
		eq, ok := q.(*feature.EqualityQuestion)
		if !ok {
			t.Fatalf("expected equality question, got %T", q)
		}
		if eq.Feature().Name() != "color" || eq.Value() != "Red" {
			t.Fatalf("run %d: expected first-seen question on color == Red to win the tie, got %v", i, q)
		}
	}
}

func TestFindBestSplitNoSignal(t *testing.T) {
	// Identical feature values with different labels: nothing to ask.
	label := feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime"})
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"color": "Red", "fruit": "Apple"}),
		dataset.NewSample(map[string]interface{}{"color": "Red", "fruit": "Lime"}),
	}
	s := dataset.NewMemoryIntensive(samples)
	gain, q, err := FindBestSplit(context.Background(), s, []feature.Feature{testColor}, label)
	if err != nil {
		t.Fatalf("finding best split: %v", err)
	}
	if q != nil {
		t.Errorf("expected no question, got %v", q)
	}
	if gain != 0.0 {
		t.Errorf("expected 0 gain, got %f", gain)
	}
}

func TestFindBestSplitCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := dataset.NewMemoryIntensive(testSamples())
	_, _, err := FindBestSplit(ctx, s, []feature.Feature{testColor, testSize}, testFruit)
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

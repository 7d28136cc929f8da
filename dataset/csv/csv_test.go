package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

var (
	csvTestColor = feature.NewCategoricalFeature("color", []string{"Red", "Green", "Yellow"})
	csvTestSize  = feature.NewNumericFeature("size")
	csvTestFruit = feature.NewCategoricalFeature("fruit", []string{"Apple", "Lime", "Lemon"})
)

func csvTestFeatures() []feature.Feature {
	return []feature.Feature{csvTestColor, csvTestSize, csvTestFruit}
}

const csvTestContent = `color,size,fruit
Red,60,Apple
Green,40,Lime
?,65,Lemon
`

func TestReadDataset(t *testing.T) {
	ctx := context.Background()
	s, err := ReadDataset(strings.NewReader(csvTestContent), csvTestFeatures(), dataset.NewMemoryIntensive)
	if err != nil {
		t.Fatalf("reading dataset: %v", err)
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 samples, got %d", count)
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		t.Fatalf("reading samples: %v", err)
	}
	v, err := samples[0].ValueFor(csvTestSize)
	if err != nil {
		t.Fatalf("reading sample value: %v", err)
	}
	if v != 60.0 {
		t.Errorf("expected numeric values to be parsed as float64, got %v (%T)", v, v)
	}
	v, err = samples[2].ValueFor(csvTestColor)
	if err != nil {
		t.Fatalf("reading sample value: %v", err)
	}
	if v != nil {
		t.Errorf("expected '?' to be read as an undefined value, got %v", v)
	}
}

func TestReadDatasetBySampleStops(t *testing.T) {
	read := 0
	err := ReadDatasetBySample(strings.NewReader(csvTestContent), csvTestFeatures(), func(i int, s dataset.Sample) (bool, error) {
		read++
		return i < 1, nil
	})
	if err != nil {
		t.Fatalf("reading dataset: %v", err)
	}
	if read != 2 {
		t.Errorf("expected reading to stop after the lambda returns false, read %d samples", read)
	}
}

func TestReadDatasetInvalidValue(t *testing.T) {
	content := "color,size,fruit\nBlue,60,Apple\n"
	_, err := ReadDataset(strings.NewReader(content), csvTestFeatures(), dataset.NewMemoryIntensive)
	if err == nil {
		t.Fatal("expected an error for a value not available for the feature")
	}
}

func TestReadDatasetInvalidNumber(t *testing.T) {
	content := "color,size,fruit\nRed,big,Apple\n"
	_, err := ReadDataset(strings.NewReader(content), csvTestFeatures(), dataset.NewMemoryIntensive)
	if err == nil {
		t.Fatal("expected an error for a non-numeric value on a numeric feature")
	}
}

func TestReadDatasetUnknownHeaderFeature(t *testing.T) {
	content := "color,flavor,fruit\nRed,sweet,Apple\n"
	_, err := ReadDataset(strings.NewReader(content), csvTestFeatures(), dataset.NewMemoryIntensive)
	if err == nil {
		t.Fatal("expected an error for a header referencing an unknown feature")
	}
}

func TestWriteCSVDataset(t *testing.T) {
	ctx := context.Background()
	s, err := ReadDataset(strings.NewReader(csvTestContent), csvTestFeatures(), dataset.NewMemoryIntensive)
	if err != nil {
		t.Fatalf("reading dataset: %v", err)
	}
	var buf bytes.Buffer
	err = WriteCSVDataset(ctx, &buf, s, csvTestFeatures())
	if err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	if buf.String() != csvTestContent {
		t.Errorf("expected the dataset to round-trip:\n%s\ngot:\n%s", csvTestContent, buf.String())
	}
}

func TestWriterCount(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, csvTestFeatures())
	if err != nil {
		t.Fatalf("creating writer: %v", err)
	}
	samples := []dataset.Sample{
		dataset.NewSample(map[string]interface{}{"color": "Red", "size": 60.0, "fruit": "Apple"}),
		dataset.NewSample(map[string]interface{}{"color": "Green", "size": 40.0, "fruit": "Lime"}),
	}
	n, err := w.Write(ctx, samples)
	if err != nil {
		t.Fatalf("writing samples: %v", err)
	}
	if n != 2 || w.Count() != 2 {
		t.Errorf("expected 2 written samples, got n=%d count=%d", n, w.Count())
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flushing: %v", err)
	}
}

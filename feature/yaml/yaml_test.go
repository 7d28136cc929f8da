package yaml

import (
	"testing"

	"github.com/canopyml/canopy/feature"
)

const testMetadata = `
features:
  color:
    - Red
    - Green
    - Yellow
  size: numeric
  weight: numeric
  fruit:
    - Apple
    - Lime
    - Lemon
`

func TestReadFeatures(t *testing.T) {
	features, err := ReadFeatures([]byte(testMetadata))
	if err != nil {
		t.Fatalf("reading features: %v", err)
	}
	expected := []struct {
		name        string
		categorical bool
	}{
		{"color", true},
		{"size", false},
		{"weight", false},
		{"fruit", true},
	}
	if len(features) != len(expected) {
		t.Fatalf("expected %d features, got %d", len(expected), len(features))
	}
	for i, e := range expected {
		f := features[i]
		if f.Name() != e.name {
			t.Errorf("expected feature %d to be %s, got %s: features must keep their declaration order", i, e.name, f.Name())
		}
		_, categorical := f.(*feature.CategoricalFeature)
		if categorical != e.categorical {
			t.Errorf("expected feature %s categorical=%v, got %T", e.name, e.categorical, f)
		}
	}
}

func TestReadFeaturesCategoricalValues(t *testing.T) {
	features, err := ReadFeatures([]byte(testMetadata))
	if err != nil {
		t.Fatalf("reading features: %v", err)
	}
	color, ok := features[0].(*feature.CategoricalFeature)
	if !ok {
		t.Fatalf("expected a categorical feature, got %T", features[0])
	}
	values := color.AvailableValues()
	if len(values) != 3 || values[0] != "Red" || values[1] != "Green" || values[2] != "Yellow" {
		t.Errorf("expected color values [Red Green Yellow], got %v", values)
	}
}

func TestReadFeaturesInvalidDeclaration(t *testing.T) {
	_, err := ReadFeatures([]byte("features:\n  size: huge\n"))
	if err == nil {
		t.Fatal("expected an error for a non-numeric string feature declaration")
	}
}

func TestReadFeaturesMissingFeatures(t *testing.T) {
	_, err := ReadFeatures([]byte("something: else\n"))
	if err == nil {
		t.Fatal("expected an error for metadata with no features")
	}
}

func TestReadFeaturesInvalidYAML(t *testing.T) {
	_, err := ReadFeatures([]byte("features: [unclosed"))
	if err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
}

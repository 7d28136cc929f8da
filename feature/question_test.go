package feature

import (
	"testing"
)

type mapSample map[string]interface{}

func (ms mapSample) ValueFor(f Feature) (interface{}, error) {
	return ms[f.Name()], nil
}

func TestEqualityQuestionMatch(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red", "Green"})
	q := NewEqualityQuestion(color, "Red")
	for _, c := range []struct {
		sample   mapSample
		expected bool
	}{
		{mapSample{"color": "Red"}, true},
		{mapSample{"color": "Green"}, false},
		{mapSample{}, false},
		{mapSample{"color": 42.0}, false},
	} {
		ok, err := q.Match(c.sample)
		if err != nil {
			t.Fatalf("matching %v: %v", c.sample, err)
		}
		if ok != c.expected {
			t.Errorf("expected Match(%v) to be %v, got %v", c.sample, c.expected, ok)
		}
	}
	if q.String() != "is color == Red" {
		t.Errorf("expected question to render as 'is color == Red', got %q", q.String())
	}
}

func TestThresholdQuestionMatch(t *testing.T) {
	size := NewNumericFeature("size")
	q := NewThresholdQuestion(size, 50.0)
	for _, c := range []struct {
		sample   mapSample
		expected bool
	}{
		{mapSample{"size": 60.0}, true},
		{mapSample{"size": 50.0}, true},
		{mapSample{"size": 49.999}, false},
		{mapSample{}, false},
		{mapSample{"size": "big"}, false},
	} {
		ok, err := q.Match(c.sample)
		if err != nil {
			t.Fatalf("matching %v: %v", c.sample, err)
		}
		if ok != c.expected {
			t.Errorf("expected Match(%v) to be %v, got %v", c.sample, c.expected, ok)
		}
	}
	if q.String() != "is size >= 50" {
		t.Errorf("expected question to render as 'is size >= 50', got %q", q.String())
	}
}

func TestNewQuestion(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red", "Green"})
	size := NewNumericFeature("size")
	q, err := NewQuestion(color, "Red")
	if err != nil {
		t.Fatalf("building question: %v", err)
	}
	if _, ok := q.(*EqualityQuestion); !ok {
		t.Errorf("expected an equality question for a categorical feature, got %T", q)
	}
	q, err = NewQuestion(size, 50.0)
	if err != nil {
		t.Fatalf("building question: %v", err)
	}
	if _, ok := q.(*ThresholdQuestion); !ok {
		t.Errorf("expected a threshold question for a numeric feature, got %T", q)
	}
}

func TestNewQuestionValueMismatch(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red", "Green"})
	size := NewNumericFeature("size")
	if _, err := NewQuestion(color, 42.0); err == nil {
		t.Error("expected an error building a question on a categorical feature with a float64 value")
	}
	if _, err := NewQuestion(size, "big"); err == nil {
		t.Error("expected an error building a question on a numeric feature with a string value")
	}
}

type opaqueFeature string

func (of opaqueFeature) Name() string {
	return string(of)
}

func (of opaqueFeature) Valid(interface{}) (bool, error) {
	return true, nil
}

func TestNewQuestionUnsupportedFeatureKind(t *testing.T) {
	if _, err := NewQuestion(opaqueFeature("weird"), "value"); err == nil {
		t.Error("expected an error building a question on a feature of an unknown kind")
	}
}

package feature

import "testing"

func TestCategoricalFeatureValid(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red", "Green"})
	for _, c := range []struct {
		value    interface{}
		expected bool
	}{
		{"Red", true},
		{"Green", true},
		{nil, true},
		{"Blue", false},
		{42.0, false},
	} {
		ok, err := color.Valid(c.value)
		if ok != c.expected {
			t.Errorf("expected Valid(%v) to be %v, got %v", c.value, c.expected, ok)
		}
		if !ok && err == nil {
			t.Errorf("expected an error describing why %v is invalid", c.value)
		}
	}
}

func TestNumericFeatureValid(t *testing.T) {
	size := NewNumericFeature("size")
	for _, c := range []struct {
		value    interface{}
		expected bool
	}{
		{42.0, true},
		{nil, true},
		{"42", false},
		{42, false},
	} {
		ok, err := size.Valid(c.value)
		if ok != c.expected {
			t.Errorf("expected Valid(%v) to be %v, got %v", c.value, c.expected, ok)
		}
		if !ok && err == nil {
			t.Errorf("expected an error describing why %v is invalid", c.value)
		}
	}
}

func TestFeatureNames(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red"})
	size := NewNumericFeature("size")
	if color.Name() != "color" {
		t.Errorf("expected name color, got %s", color.Name())
	}
	if size.Name() != "size" {
		t.Errorf("expected name size, got %s", size.Name())
	}
}

func TestCategoricalFeatureAvailableValues(t *testing.T) {
	color := NewCategoricalFeature("color", []string{"Red", "Green"})
	values := color.AvailableValues()
	if len(values) != 2 || values[0] != "Red" || values[1] != "Green" {
		t.Errorf("expected available values [Red Green], got %v", values)
	}
}

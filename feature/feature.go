package feature

import "fmt"

/*
Feature represents a property of a record that can be observed
and asked about when classifying.
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
Sample is something feature values can be read from.

Its ValueFor method returns the value the sample holds for the
feature passed as parameter, or nil if the sample does not
define one.
*/
type Sample interface {
	ValueFor(Feature) (interface{}, error)
}

/*
CategoricalFeature represents a property that can only take a
value among a finite set and is compared by equality.
*/
type CategoricalFeature struct {
	name            string
	availableValues []string
}

/*
NumericFeature represents a property that takes a float64 value
and is compared by ordering.
*/
type NumericFeature struct {
	name string
}

/*
NewCategoricalFeature takes a name string and a slice of available value
strings and returns a categorical feature with the given name and
available values.
*/
func NewCategoricalFeature(name string, availableValues []string) *CategoricalFeature {
	return &CategoricalFeature{name, availableValues}
}

/*
NewNumericFeature takes a name string and returns a numeric feature with
the given name.
*/
func NewNumericFeature(name string) *NumericFeature {
	return &NumericFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (cf *CategoricalFeature) Name() string {
	return cf.name
}

/*
Valid receives an interface value and returns a boolean and an error.
When the value is nil or included in the available values for the
feature, it returns true and nil. Otherwise it returns false and an
error describing the reason.
*/
func (cf *CategoricalFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("categorical feature %s expects string value, got %T value", cf.Name(), value)
	}
	for _, av := range cf.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("categorical feature %s got unknown value %s", cf.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for
the feature
*/
func (cf *CategoricalFeature) AvailableValues() []string {
	return cf.availableValues
}

func (cf *CategoricalFeature) String() string {
	return cf.name
}

/*
Name returns a string with the name of the feature
*/
func (nf *NumericFeature) Name() string {
	return nf.name
}

/*
Valid receives an interface value and returns a boolean and an error.
When the value is nil or a float64 it returns true and nil, otherwise
it returns false and an error describing the reason.
*/
func (nf *NumericFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	_, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("numeric feature %s expects float64 value, got %T value", nf.Name(), value)
	}
	return true, nil
}

func (nf *NumericFeature) String() string {
	return nf.name
}

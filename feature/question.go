package feature

import "fmt"

/*
Question represents a binary predicate on a single feature: a
concrete value drawn from training data that samples are compared
against.

Its Match method takes a sample and returns a boolean indicating
whether the sample satisfies the question.

Its Feature method returns the feature the question asks about.
*/
type Question interface {
	Feature() Feature
	Match(sample Sample) (bool, error)
}

/*
EqualityQuestion represents a question on a categorical feature:
whether the feature takes a specific value.
*/
type EqualityQuestion struct {
	feature *CategoricalFeature
	value   string
}

/*
ThresholdQuestion represents a question on a numeric feature:
whether the feature's value is greater than or equal to a
threshold.
*/
type ThresholdQuestion struct {
	feature   *NumericFeature
	threshold float64
}

/*
NewQuestion takes a feature and a value observed for it and returns
the question that compares samples against that value: an equality
question for categorical features, a threshold question for numeric
features. It returns an error if the feature is of an unsupported
kind or the value does not fit the feature.
*/
func NewQuestion(f Feature, value interface{}) (Question, error) {
	switch f := f.(type) {
	case *CategoricalFeature:
		vs, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("building question on %s: expected string value, got %T", f.Name(), value)
		}
		return NewEqualityQuestion(f, vs), nil
	case *NumericFeature:
		vf, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("building question on %s: expected float64 value, got %T", f.Name(), value)
		}
		return NewThresholdQuestion(f, vf), nil
	}
	return nil, fmt.Errorf("unsupported feature kind %T for feature %s", f, f.Name())
}

/*
NewEqualityQuestion takes a CategoricalFeature and a value string and
returns an EqualityQuestion matching samples whose value for the
feature equals the given value.
*/
func NewEqualityQuestion(f *CategoricalFeature, value string) *EqualityQuestion {
	return &EqualityQuestion{f, value}
}

/*
NewThresholdQuestion takes a NumericFeature and a threshold float64
and returns a ThresholdQuestion matching samples whose value for the
feature is greater than or equal to the threshold.
*/
func NewThresholdQuestion(f *NumericFeature, threshold float64) *ThresholdQuestion {
	return &ThresholdQuestion{f, threshold}
}

/*
Feature returns the feature the question asks about.
*/
func (eq *EqualityQuestion) Feature() Feature {
	return eq.feature
}

/*
Match receives a sample and returns a boolean indicating whether the
sample satisfies the question. It returns false if the sample does
not define a value for the feature or the value is not a string, and
the string comparison result otherwise.
*/
func (eq *EqualityQuestion) Match(sample Sample) (bool, error) {
	val, err := sample.ValueFor(eq.feature)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	stringVal, ok := val.(string)
	if !ok {
		return false, nil
	}
	return eq.value == stringVal, nil
}

/*
Value returns the value the question compares against.
*/
func (eq *EqualityQuestion) Value() string {
	return eq.value
}

func (eq *EqualityQuestion) String() string {
	return fmt.Sprintf("is %s == %s", eq.feature.Name(), eq.value)
}

/*
Feature returns the feature the question asks about.
*/
func (tq *ThresholdQuestion) Feature() Feature {
	return tq.feature
}

/*
Match receives a sample and returns a boolean indicating whether the
sample satisfies the question. It returns false if the sample does
not define a value for the feature or the value is not a float64,
and the result of comparing the value against the threshold with >=
otherwise.
*/
func (tq *ThresholdQuestion) Match(sample Sample) (bool, error) {
	val, err := sample.ValueFor(tq.feature)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	floatVal, ok := val.(float64)
	if !ok {
		return false, nil
	}
	return floatVal >= tq.threshold, nil
}

/*
Threshold returns the threshold the question compares against.
*/
func (tq *ThresholdQuestion) Threshold() float64 {
	return tq.threshold
}

func (tq *ThresholdQuestion) String() string {
	return fmt.Sprintf("is %s >= %v", tq.feature.Name(), tq.threshold)
}

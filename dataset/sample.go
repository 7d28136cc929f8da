package dataset

import (
	"fmt"

	"github.com/canopyml/canopy/feature"
)

/*
Sample represents a record to classify or from which to learn how to
classify records.

Its ValueFor method returns the value of the sample corresponding to
the feature passed as parameter.
*/
type Sample = feature.Sample

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns a
sample holding them. Samples are read-only: induction and
classification never modify them.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(f feature.Feature) (interface{}, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}

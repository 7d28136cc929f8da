package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
Prediction represents the label distribution a decision Tree answers
with: how many training samples of each label value reached the leaf
the classified sample lands on.
*/
type Prediction struct {
	counts map[string]int
	weight int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotClassifySample is the error returned by the Classify method
of a tree when no answer can be produced for the sample, as opposed to
cases where values for a feature cannot be obtained for example.
*/
const ErrCannotClassifySample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptySet is the error returned when trying to
build a prediction based on an empty dataset.
*/
const ErrCannotPredictFromEmptySet = PredictionError("cannot make prediction for empty dataset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a map of label values to the number of samples
observed with each and returns a prediction representing that
distribution.
*/
func NewPrediction(counts map[string]int) *Prediction {
	var weight int
	for _, c := range counts {
		weight += c
	}
	return &Prediction{counts: counts, weight: weight}
}

/*
NewPredictionFromDataset takes a context, a dataset and a label
feature and returns a prediction with the distribution of the label
over the (training) data in the dataset, or an error if the dataset
is empty or cannot be queried.
*/
func NewPredictionFromDataset(ctx context.Context, s dataset.Dataset, label feature.Feature) (*Prediction, error) {
	weight, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if weight == 0 {
		return nil, ErrCannotPredictFromEmptySet
	}
	counts, err := s.CountFeatureValues(ctx, label)
	if err != nil {
		return nil, err
	}
	return &Prediction{counts, weight}, nil
}

/*
Counts returns a map of label value to the number of samples observed
with it. The map is read-only.
*/
func (p *Prediction) Counts() map[string]int {
	return p.counts
}

/*
Weight returns the weight of the prediction: an int equal to the
number of samples in the dataset from which the prediction was made.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
CountOf takes a label value and returns the number of samples
observed with it.
*/
func (p *Prediction) CountOf(value string) int {
	return p.counts[value]
}

/*
ProbabilityOf takes a label value and returns the float64 share of
that value in the distribution.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	if p.weight == 0 {
		return 0.0
	}
	return float64(p.counts[value]) / float64(p.weight)
}

/*
PredictedValue returns a string with the most frequent label value
and a float64 with its share of the distribution.
*/
func (p *Prediction) PredictedValue() (value string, prob float64) {
	for _, k := range p.sortedValues() {
		v := p.ProbabilityOf(k)
		if v > prob {
			value = k
			prob = v
		}
	}
	return
}

/*
String renders the distribution as each label's share truncated to an
integer percentage of the total count, labels in lexicographic order:
"Apple: 66%, Lime: 33%".
*/
func (p *Prediction) String() string {
	parts := make([]string, 0, len(p.counts))
	for _, v := range p.sortedValues() {
		parts = append(parts, fmt.Sprintf("%s: %d%%", v, int(float64(p.counts[v])/float64(p.weight)*100)))
	}
	return strings.Join(parts, ", ")
}

func (p *Prediction) sortedValues() []string {
	values := make([]string, 0, len(p.counts))
	for v := range p.counts {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

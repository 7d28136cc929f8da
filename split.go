package canopy

import (
	"context"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
CandidateQuestions takes a context, a dataset and a feature and
returns one question per distinct value the feature takes across the
dataset: an equality question for categorical features, a threshold
question for numeric features. Two samples sharing a feature value
yield one candidate, not two. Candidates are returned in the order
their values are first observed in the dataset, so repeated runs over
the same data enumerate them identically. An error is returned for
features of an unsupported kind.
*/
func CandidateQuestions(ctx context.Context, s dataset.Dataset, f feature.Feature) ([]feature.Question, error) {
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	questions := make([]feature.Question, 0, len(values))
	for _, v := range values {
		q, err := feature.NewQuestion(f, v)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

/*
Partition takes a context, a question and a dataset and returns two
fresh datasets: the samples matching the question and the samples not
matching it, each preserving the relative order of the input. The
input dataset is never modified.
*/
func Partition(ctx context.Context, q feature.Question, s dataset.Dataset) (dataset.Dataset, dataset.Dataset, error) {
	return s.Split(ctx, q)
}

/*
FindBestSplit takes a context, a dataset, the slice of features to
ask about and the label feature, evaluates every candidate question
of every feature against the dataset and returns the best information
gain found together with the question achieving it.

Splits leaving either side empty are skipped: both children of a
decision node must be non-empty. Ties are resolved first-seen-wins:
the held best question is only replaced by a strictly greater gain,
so among equal-gain candidates the one enumerated first is kept.
A nil question and gain 0 are returned when no candidate improves on
zero gain, which is the leaf-termination signal, not an error.
*/
func FindBestSplit(ctx context.Context, s dataset.Dataset, features []feature.Feature, label feature.Feature) (float64, feature.Question, error) {
	currentImpurity, err := GiniImpurity(ctx, s, label)
	if err != nil {
		return 0.0, nil, err
	}
	bestGain := 0.0
	var bestQuestion feature.Question
	for _, f := range features {
		questions, err := CandidateQuestions(ctx, s, f)
		if err != nil {
			return 0.0, nil, err
		}
		for _, q := range questions {
			if err := ctx.Err(); err != nil {
				return 0.0, nil, err
			}
			matching, rest, err := Partition(ctx, q, s)
			if err != nil {
				return 0.0, nil, err
			}
			matchingCount, err := matching.Count(ctx)
			if err != nil {
				return 0.0, nil, err
			}
			restCount, err := rest.Count(ctx)
			if err != nil {
				return 0.0, nil, err
			}
			if matchingCount == 0 || restCount == 0 {
				continue
			}
			gain, err := InformationGain(ctx, matching, rest, currentImpurity, label)
			if err != nil {
				return 0.0, nil, err
			}
			if gain > bestGain {
				bestGain = gain
				bestQuestion = q
			}
		}
	}
	return bestGain, bestQuestion, nil
}

package canopy

import (
	"context"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
GiniImpurity takes a context, a dataset and a label feature and
returns the Gini impurity of the dataset for the label: the
probability that two samples drawn at random with replacement from
the dataset have different label values. It is 0 for a single-class
dataset. The dataset must not be empty.
*/
func GiniImpurity(ctx context.Context, s dataset.Dataset, label feature.Feature) (float64, error) {
	counts, err := s.CountFeatureValues(ctx, label)
	if err != nil {
		return 0.0, err
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	impurity := 1.0
	for _, c := range counts {
		labelShare := float64(c) / total
		impurity -= labelShare * labelShare
	}
	return impurity, nil
}

/*
InformationGain takes a context, the two non-empty sides of a split,
the impurity of the dataset they were split from and the label
feature, and returns the weighted impurity decrease the split
achieves:

	parentImpurity - p*gini(left) - (1-p)*gini(right)

with p the share of samples on the left side. The result may be
slightly negative due to floating-point roundoff.
*/
func InformationGain(ctx context.Context, left, right dataset.Dataset, parentImpurity float64, label feature.Feature) (float64, error) {
	leftCount, err := left.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	rightCount, err := right.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	leftImpurity, err := GiniImpurity(ctx, left, label)
	if err != nil {
		return 0.0, err
	}
	rightImpurity, err := GiniImpurity(ctx, right, label)
	if err != nil {
		return 0.0, err
	}
	p := float64(leftCount) / float64(leftCount+rightCount)
	return parentImpurity - p*leftImpurity - (1.0-p)*rightImpurity, nil
}

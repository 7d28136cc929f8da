package dataset

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/feature"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents an ordered collection of samples.

Its FeatureValues method returns the distinct values a feature takes
across the samples, in the order they are first observed.

Its CountFeatureValues method returns how many samples take each
value of a feature.

Its Split method takes a feature.Question and returns two fresh
datasets: the samples that match the question and the samples that do
not, each preserving the relative order of the receiver. The receiver
is never modified.

Its Samples method returns the samples it contains.
*/
type Dataset interface {
	Count(context.Context) (int, error)
	Samples(context.Context) ([]Sample, error)
	FeatureValues(context.Context, feature.Feature) ([]interface{}, error)
	CountFeatureValues(context.Context, feature.Feature) (map[string]int, error)
	Split(context.Context, feature.Question) (Dataset, Dataset, error)
}

type memoryIntensiveSplittingDataset struct {
	samples []Sample
}

type questionOutcome struct {
	question feature.Question
	want     bool
}

type cpuIntensiveSplittingDataset struct {
	count    *int
	samples  []Sample
	outcomes []questionOutcome
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return &cpuIntensiveSplittingDataset{nil, samples, nil}
	}
	return &memoryIntensiveSplittingDataset{samples}
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of samples when splitting to reduce calculations
at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSplittingDataset{samples}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset built
with them. A cpu-intensive dataset is an implementation that instead
of replicating the samples when splitting, stores the applying
question outcomes that define the subset and keeps the same sample
slice. This can achieve a drastic reduction in memory use that comes
at the cost of CPU time: every calculation that goes over the samples
of the dataset will evaluate the question outcomes of the dataset on
all original samples (the ones provided to this method).
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSplittingDataset{nil, samples, nil}
}

func (s *memoryIntensiveSplittingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSplittingDataset) Count(ctx context.Context) (int, error) {
	if s.count != nil {
		return *s.count, nil
	}
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	s.count = &length
	return length, nil
}

func (s *memoryIntensiveSplittingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	for _, sample := range s.samples {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		vString := fmt.Sprintf("%v", v)
		if !encountered[vString] {
			encountered[vString] = true
			result = append(result, v)
		}
	}
	return result, nil
}

func (s *cpuIntensiveSplittingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	result := []interface{}{}
	encountered := make(map[string]bool)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(f)
		if err != nil {
			return false, err
		}
		if v == nil {
			return true, nil
		}
		vString := fmt.Sprintf("%v", v)
		if !encountered[vString] {
			encountered[vString] = true
			result = append(result, v)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *memoryIntensiveSplittingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	for _, sample := range s.samples {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		vString := fmt.Sprintf("%v", v)
		result[vString]++
	}
	return result, nil
}

func (s *cpuIntensiveSplittingDataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	result := make(map[string]int)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		v, err := sample.ValueFor(f)
		if err != nil {
			return false, err
		}
		vString := fmt.Sprintf("%v", v)
		result[vString]++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *memoryIntensiveSplittingDataset) Split(ctx context.Context, q feature.Question) (Dataset, Dataset, error) {
	var matching, rest []Sample
	for _, sample := range s.samples {
		ok, err := q.Match(sample)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			matching = append(matching, sample)
		} else {
			rest = append(rest, sample)
		}
	}
	return &memoryIntensiveSplittingDataset{matching}, &memoryIntensiveSplittingDataset{rest}, nil
}

func (s *cpuIntensiveSplittingDataset) Split(ctx context.Context, q feature.Question) (Dataset, Dataset, error) {
	matching := append([]questionOutcome{}, s.outcomes...)
	matching = append(matching, questionOutcome{q, true})
	rest := append([]questionOutcome{}, s.outcomes...)
	rest = append(rest, questionOutcome{q, false})
	return &cpuIntensiveSplittingDataset{nil, s.samples, matching},
		&cpuIntensiveSplittingDataset{nil, s.samples, rest},
		nil
}

func (s *memoryIntensiveSplittingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSplittingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *cpuIntensiveSplittingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		skip := false
		for _, o := range s.outcomes {
			ok, err := o.question.Match(sample)
			if err != nil {
				return err
			}
			if ok != o.want {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

/*
Package sqldataset provides reading and writing of samples on SQL
databases through implementations of its Adapter interface.

Samples are stored on a samples table with a column per feature:
categorical feature values as text, numeric feature values as
floating-point numbers, undefined values as NULL.
*/
package sqldataset

import (
	"context"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
)

/*
Adapter is an interface providing the methods needed to read and
write samples on a specific SQL database backend.
*/
type Adapter interface {
	// ColumnName takes a feature name and returns the column it is
	// stored under or an error if the name cannot be used on the
	// backend.
	ColumnName(featureName string) (string, error)
	// CreateSampleTable ensures the samples table exists with the
	// given categorical and numeric feature columns.
	CreateSampleTable(ctx context.Context, categoricalFeatureColumns, numericFeatureColumns []string) error
	// AddSamples takes raw samples as maps of column name to value
	// and inserts them, returning the number actually inserted.
	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, categoricalFeatureColumns, numericFeatureColumns []string) (int, error)
	// IterateOnSamples retrieves the stored samples as maps of
	// column name to value and calls the lambda with each and its
	// index, stopping when the lambda returns false or an error.
	IterateOnSamples(ctx context.Context, categoricalFeatureColumns, numericFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	// CountSamples returns the number of stored samples.
	CountSamples(ctx context.Context) (int, error)
}

/*
Source reads and writes samples for a slice of features on an SQL
database through an Adapter.
*/
type Source struct {
	db                  Adapter
	features            []feature.Feature
	featureNamesColumns map[string]string
	columnFeatures      map[string]feature.Feature
	catColumns          []string
	numColumns          []string
}

/*
Open takes an Adapter to a db backend and a slice of features and
returns a Source working on the adapter's already-existing samples
table, or an error if any feature name cannot be mapped to a column.
*/
func Open(dbAdapter Adapter, features []feature.Feature) (*Source, error) {
	s := &Source{db: dbAdapter, features: features}
	err := s.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	return s, nil
}

/*
Create takes a context, an Adapter to a db backend and a slice of
features, ensures the samples table exists on the backend and returns
a Source working on it or an error.
*/
func Create(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (*Source, error) {
	s, err := Open(dbAdapter, features)
	if err != nil {
		return nil, err
	}
	err = s.db.CreateSampleTable(ctx, s.catColumns, s.numColumns)
	if err != nil {
		return nil, err
	}
	return s, nil
}

/*
Count returns the number of samples stored on the backend or an error.
*/
func (s *Source) Count(ctx context.Context) (int, error) {
	return s.db.CountSamples(ctx)
}

/*
Write takes a context and a slice of samples and stores them on the
backend, returning the number of samples actually written and an
error if not all could be written.
*/
func (s *Source) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for _, sample := range samples {
		rs, err := s.newRawSample(sample)
		if err != nil {
			return 0, err
		}
		rawSamples = append(rawSamples, rs)
	}
	return s.db.AddSamples(ctx, rawSamples, s.catColumns, s.numColumns)
}

/*
Read takes a context and a lambda function on an integer and a
dataset.Sample that returns a boolean value. It retrieves the samples
stored on the backend and for each calls the lambda with the sample
and its index as parameters. If the lambda returns true it continues
with the next sample, otherwise it stops. An error is returned if
retrieving or decoding a sample fails.
*/
func (s *Source) Read(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	return s.db.IterateOnSamples(ctx, s.catColumns, s.numColumns, func(n int, rs map[string]interface{}) (bool, error) {
		sample, err := s.newSample(rs)
		if err != nil {
			return false, err
		}
		return lambda(n, sample)
	})
}

/*
Samples takes a context and returns all the samples stored on the
backend or an error.
*/
func (s *Source) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	err := s.Read(ctx, func(_ int, sample dataset.Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *Source) newRawSample(sample dataset.Sample) (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	for _, f := range s.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", v, f.Name(), err)
		}
		rs[s.featureNamesColumns[f.Name()]] = v
	}
	return rs, nil
}

func (s *Source) newSample(rs map[string]interface{}) (dataset.Sample, error) {
	featureValues := make(map[string]interface{})
	for column, v := range rs {
		f, ok := s.columnFeatures[column]
		if !ok {
			return nil, fmt.Errorf("column %s does not belong to any feature", column)
		}
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", v, f.Name(), err)
		}
		featureValues[f.Name()] = v
	}
	return dataset.NewSample(featureValues), nil
}

func (s *Source) initFeatureColumns() error {
	s.columnFeatures = make(map[string]feature.Feature)
	s.featureNamesColumns = make(map[string]string)
	for _, f := range s.features {
		column, err := s.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		of, ok := s.columnFeatures[column]
		if ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		s.columnFeatures[column] = f
		s.featureNamesColumns[f.Name()] = column
	}
	for _, f := range s.features {
		if _, ok := f.(*feature.CategoricalFeature); ok {
			s.catColumns = append(s.catColumns, s.featureNamesColumns[f.Name()])
		} else {
			s.numColumns = append(s.numColumns, s.featureNamesColumns[f.Name()])
		}
	}
	return nil
}

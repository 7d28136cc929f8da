/*
Package mongodataset provides reading and writing of samples on a
MongoDB database.

Samples are stored as documents on a samples collection, with a field
per defined feature value: categorical feature values as strings,
numeric feature values as doubles.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const samplesCollectionName = "samples"

/*
Source reads and writes samples for a slice of features on the
default database of a MongoDB session.
*/
type Source struct {
	session  *mgo.Session
	features []feature.Feature
}

/*
Open takes a MongoDB database session and a slice of features and
returns a Source that works on the default database for that session
or an error. Feature names must be usable as document fields: "_id"
is reserved and '.' and '$' cannot appear in them.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (*Source, error) {
	s := &Source{session, features}
	err := s.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return s, nil
}

/*
Count returns the number of samples stored on the collection or an
error.
*/
func (s *Source) Count(ctx context.Context) (int, error) {
	return s.samplesCollection().Find(nil).Count()
}

/*
Write takes a context and a slice of samples and inserts them on the
samples collection, returning the number of samples actually written
and an error if not all could be written.
*/
func (s *Source) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, sample := range samples {
		doc := make(bson.M)
		for _, f := range s.features {
			value, err := sample.ValueFor(f)
			if err != nil {
				return 0, err
			}
			if value == nil {
				continue
			}
			if ok, err := f.Valid(value); !ok {
				return 0, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
			}
			doc[f.Name()] = value
		}
		docs = append(docs, doc)
	}
	err := s.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

/*
Read takes a context and a lambda function on an integer and a
dataset.Sample that returns a boolean value. It retrieves the samples
stored on the collection in insertion order and for each calls the
lambda with the sample and its index as parameters. If the lambda
returns true it continues with the next sample, otherwise it stops.
An error is returned if retrieving or decoding a sample fails.
*/
func (s *Source) Read(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	iter := s.samplesCollection().Find(nil).Sort("_id").Iter()
	defer iter.Close()
	var doc bson.M
	for n := 0; iter.Next(&doc); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sample, err := s.newSample(doc)
		if err != nil {
			return err
		}
		ok, err := lambda(n, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		doc = nil
	}
	return iter.Err()
}

/*
Samples takes a context and returns all the samples stored on the
collection or an error.
*/
func (s *Source) Samples(ctx context.Context) ([]dataset.Sample, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	samples := make([]dataset.Sample, 0, count)
	err = s.Read(ctx, func(_ int, sample dataset.Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *Source) newSample(doc bson.M) (dataset.Sample, error) {
	featureValues := make(map[string]interface{})
	for _, f := range s.features {
		v, ok := doc[f.Name()]
		if !ok || v == nil {
			continue
		}
		if _, ok := f.(*feature.NumericFeature); ok {
			switch n := v.(type) {
			case int:
				v = float64(n)
			case int64:
				v = float64(n)
			}
		}
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", v, v, f.Name(), err)
		}
		featureValues[f.Name()] = v
	}
	return dataset.NewSample(featureValues), nil
}

func (s *Source) ensureIndexes() error {
	for _, f := range s.features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := s.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) samplesCollection() *mgo.Collection {
	return s.session.DB("").C(samplesCollectionName)
}

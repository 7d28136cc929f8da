/*
Package redisdataset provides reading and writing of samples on a
redis server.

Samples are stored as JSON-encoded objects of feature name to value
on a redis list, so that reading them back preserves the order in
which they were written.
*/
package redisdataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/feature"
	redis "gopkg.in/redis.v5"
)

// DefaultSamplesKey is the key samples are stored under when
// New is given an empty key.
const DefaultSamplesKey = "canopy:samples"

/*
Source reads and writes samples for a slice of features on a
redis list.
*/
type Source struct {
	rc       *redis.Client
	key      string
	features []feature.Feature
}

/*
New takes a redis client, the key for the list to keep samples under
and a slice of features and returns a Source that works on the list.
An empty key selects DefaultSamplesKey.
*/
func New(rc *redis.Client, key string, features []feature.Feature) *Source {
	if key == "" {
		key = DefaultSamplesKey
	}
	return &Source{rc, key, features}
}

/*
Count returns the number of samples stored on the list or an error.
*/
func (s *Source) Count(ctx context.Context) (int, error) {
	n, err := s.rc.LLen(s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("counting samples on %q: %v", s.key, err)
	}
	return int(n), nil
}

/*
Write takes a context and a slice of samples, encodes them and
appends them to the list, returning the number of samples actually
written and an error if not all could be written.
*/
func (s *Source) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	encoded := make([]interface{}, 0, len(samples))
	for _, sample := range samples {
		data, err := s.encodeSample(sample)
		if err != nil {
			return 0, err
		}
		encoded = append(encoded, data)
	}
	err := s.rc.RPush(s.key, encoded...).Err()
	if err != nil {
		return 0, fmt.Errorf("writing samples to %q: %v", s.key, err)
	}
	return len(samples), nil
}

/*
Read takes a context and a lambda function on an integer and a
dataset.Sample that returns a boolean value. It retrieves the samples
stored on the list in insertion order and for each calls the lambda
with the sample and its index as parameters. If the lambda returns
true it continues with the next sample, otherwise it stops. An error
is returned if retrieving or decoding a sample fails.
*/
func (s *Source) Read(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	entries, err := s.rc.LRange(s.key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("reading samples from %q: %v", s.key, err)
	}
	for n, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		sample, err := s.decodeSample(entry)
		if err != nil {
			return fmt.Errorf("decoding sample %d from %q: %v", n, s.key, err)
		}
		ok, err := lambda(n, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
Samples takes a context and returns all the samples stored on the
list or an error.
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

func (s *Source) encodeSample(sample dataset.Sample) (string, error) {
	featureValues := make(map[string]interface{})
	for _, f := range s.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return "", err
		}
		if v == nil {
			continue
		}
		if ok, err := f.Valid(v); !ok {
			return "", fmt.Errorf("invalid value %v for feature %s: %v", v, f.Name(), err)
		}
		featureValues[f.Name()] = v
	}
	data, err := json.Marshal(featureValues)
	if err != nil {
		return "", fmt.Errorf("encoding sample: %v", err)
	}
	return string(data), nil
}

func (s *Source) decodeSample(entry string) (dataset.Sample, error) {
	var rawValues map[string]interface{}
	err := json.Unmarshal([]byte(entry), &rawValues)
	if err != nil {
		return nil, err
	}
	featureValues := make(map[string]interface{})
	for _, f := range s.features {
		v, ok := rawValues[f.Name()]
		if !ok || v == nil {
			continue
		}
		if ok, err := f.Valid(v); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", v, v, f.Name(), err)
		}
		featureValues[f.Name()] = v
	}
	return dataset.NewSample(featureValues), nil
}

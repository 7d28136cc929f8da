package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/dataset/csv"
	"github.com/canopyml/canopy/dataset/mongodataset"
	"github.com/canopyml/canopy/dataset/redisdataset"
	"github.com/canopyml/canopy/dataset/sqldataset"
	"github.com/canopyml/canopy/dataset/sqldataset/pgadapter"
	"github.com/canopyml/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/canopyml/canopy/feature"
	mgo "gopkg.in/mgo.v2"
	redis "gopkg.in/redis.v5"
)

/*
datasourceCmdConfig holds the flags shared by the commands that read
a dataset: where to read it from, the YAML metadata describing its
features and how to hold it in memory.
*/
type datasourceCmdConfig struct {
	*rootCmdConfig
	dataInput              string
	metadataInput          string
	classFeature           string
	memoryIntensiveDataset bool
	cpuIntensiveDataset    bool
	workers                int
	ctx                    context.Context
	cancelFunc             context.CancelFunc
}

func (dcc *datasourceCmdConfig) Validate() error {
	if dcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if dcc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	if dcc.cpuIntensiveDataset && dcc.memoryIntensiveDataset {
		return fmt.Errorf("cannot set both memory-intensive and cpu-intensive flags at the same time")
	}
	return nil
}

func (dcc *datasourceCmdConfig) datasetGenerator() csv.DatasetGenerator {
	if dcc.memoryIntensiveDataset {
		return csv.DatasetGenerator(dataset.NewMemoryIntensive)
	}
	if dcc.cpuIntensiveDataset {
		return csv.DatasetGenerator(dataset.NewCPUIntensive)
	}
	return csv.DatasetGenerator(dataset.New)
}

/*
inputDataset loads the samples on the configured data input into a
dataset: a PostgreSQL connection URL, a MongoDB connection URL, a
redis connection URL or an SQLite3 (.db) file select the backend to
read from, any other value is read as a CSV file and the empty value
as CSV on STDIN.
*/
func (dcc *datasourceCmdConfig) inputDataset(features []feature.Feature) (dataset.Dataset, error) {
	in := dcc.dataInput
	switch {
	case in == "":
		dcc.Logf("Reading dataset from STDIN...")
		return csv.ReadDataset(os.Stdin, features, dcc.datasetGenerator())
	case strings.HasPrefix(in, "postgresql://"):
		dcc.Logf("Creating PostgreSQL adapter for url %s to read dataset...", in)
		adapter, err := pgadapter.New(in)
		if err != nil {
			return nil, err
		}
		return dcc.sqlDataset(adapter, features)
	case strings.HasPrefix(in, "mongodb://"):
		dcc.Logf("Dialing MongoDB at %s to read dataset...", in)
		session, err := mgo.Dial(in)
		if err != nil {
			return nil, err
		}
		defer session.Close()
		src, err := mongodataset.Open(dcc.Context(), session, features)
		if err != nil {
			return nil, err
		}
		samples, err := src.Samples(dcc.Context())
		if err != nil {
			return nil, err
		}
		return dcc.datasetGenerator()(samples), nil
	case strings.HasPrefix(in, "redis://"):
		dcc.Logf("Connecting to redis at %s to read dataset...", in)
		rc, err := redisClient(in)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		samples, err := redisdataset.New(rc, "", features).Samples(dcc.Context())
		if err != nil {
			return nil, err
		}
		return dcc.datasetGenerator()(samples), nil
	case strings.HasSuffix(in, ".db"):
		dcc.Logf("Creating SQLite3 adapter for file %s to read dataset...", in)
		adapter, err := sqlite3adapter.New(in)
		if err != nil {
			return nil, err
		}
		return dcc.sqlDataset(adapter, features)
	}
	dcc.Logf("Opening %s to read dataset...", in)
	return csv.ReadDatasetFromFilePath(in, features, dcc.datasetGenerator())
}

func (dcc *datasourceCmdConfig) sqlDataset(adapter sqldataset.Adapter, features []feature.Feature) (dataset.Dataset, error) {
	src, err := sqldataset.Open(adapter, features)
	if err != nil {
		return nil, err
	}
	samples, err := src.Samples(dcc.Context())
	if err != nil {
		return nil, err
	}
	return dcc.datasetGenerator()(samples), nil
}

func (dcc *datasourceCmdConfig) Context() context.Context {
	dcc.setContextAndCancelFunc()
	return dcc.ctx
}

func (dcc *datasourceCmdConfig) ContextCancelFunc() context.CancelFunc {
	dcc.setContextAndCancelFunc()
	return dcc.cancelFunc
}

func (dcc *datasourceCmdConfig) setContextAndCancelFunc() {
	if dcc.ctx == nil {
		dcc.ctx, dcc.cancelFunc = context.WithCancel(context.Background())
	}
}

/*
splitClassFeature takes a slice of features and the name of the class
feature and returns the class feature and the remaining features in
their original order, or an error if the name does not belong to any
feature on the slice.
*/
func splitClassFeature(features []feature.Feature, name string) (feature.Feature, []feature.Feature, error) {
	var classFeature feature.Feature
	rest := make([]feature.Feature, 0, len(features)-1)
	for _, f := range features {
		if f.Name() == name {
			classFeature = f
			continue
		}
		rest = append(rest, f)
	}
	if classFeature == nil {
		return nil, nil, fmt.Errorf("class feature '%s' is not defined", name)
	}
	return classFeature, rest, nil
}

/*
redisClient takes a redis connection URL and returns a client for it.
The URL may carry a password as user info and a database number as
its path.
*/
func redisClient(rawurl string) (*redis.Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url %s: %v", rawurl, err)
	}
	opts := &redis.Options{Addr: u.Host}
	if !strings.Contains(u.Host, ":") {
		opts.Addr = u.Host + ":6379"
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			opts.Password = password
		}
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil {
			return nil, fmt.Errorf("parsing redis database number %q: %v", path, err)
		}
		opts.DB = db
	}
	return redis.NewClient(opts), nil
}

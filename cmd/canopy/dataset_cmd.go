package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/canopyml/canopy/dataset"
	"github.com/canopyml/canopy/dataset/csv"
	"github.com/canopyml/canopy/dataset/mongodataset"
	"github.com/canopyml/canopy/dataset/redisdataset"
	"github.com/canopyml/canopy/dataset/sqldataset"
	"github.com/canopyml/canopy/dataset/sqldataset/pgadapter"
	"github.com/canopyml/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/canopyml/canopy/feature"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type datasetCmdConfig struct {
	datasourceCmdConfig
	dataOutput string
}

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
}

type writableDataset interface {
	sampleWriter
	Flush() error
}

type flushableSampleWriter struct {
	sampleWriter
}

func (fsw *flushableSampleWriter) Flush() error {
	return nil
}

func datasetCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &datasetCmdConfig{datasourceCmdConfig: datasourceCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage datasets",
		Long:  `Copy datasets of samples between CSV files, SQL databases, MongoDB and redis`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Features from metadata read")
			output, cleanup, err := config.outputWriter(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			defer cleanup()
			err = config.iterateInput(features, func(_ int, s dataset.Sample) (bool, error) {
				_, err := output.Write(config.Context(), []dataset.Sample{s})
				if err != nil {
					return false, err
				}
				return true, nil
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis connection URL with samples to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis connection URL to dump the samples to (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (dcc *datasetCmdConfig) Validate() error {
	if dcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

/*
iterateInput parses the samples on the configured data input and
calls the lambda with each of them and its index, dispatching on the
input the same way inputDataset does.
*/
func (dcc *datasetCmdConfig) iterateInput(features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	in := dcc.dataInput
	switch {
	case strings.HasPrefix(in, "postgresql://"):
		dcc.Logf("Creating PostgreSQL adapter for url %s to read input dataset...", in)
		adapter, err := pgadapter.New(in)
		if err != nil {
			return err
		}
		src, err := sqldataset.Open(adapter, features)
		if err != nil {
			return err
		}
		return src.Read(dcc.Context(), lambda)
	case strings.HasPrefix(in, "mongodb://"):
		dcc.Logf("Dialing MongoDB at %s to read input dataset...", in)
		session, err := mgo.Dial(in)
		if err != nil {
			return err
		}
		defer session.Close()
		src, err := mongodataset.Open(dcc.Context(), session, features)
		if err != nil {
			return err
		}
		return src.Read(dcc.Context(), lambda)
	case strings.HasPrefix(in, "redis://"):
		dcc.Logf("Connecting to redis at %s to read input dataset...", in)
		rc, err := redisClient(in)
		if err != nil {
			return err
		}
		defer rc.Close()
		return redisdataset.New(rc, "", features).Read(dcc.Context(), lambda)
	case strings.HasSuffix(in, ".db"):
		dcc.Logf("Creating SQLite3 adapter for file %s to read input dataset...", in)
		adapter, err := sqlite3adapter.New(in)
		if err != nil {
			return err
		}
		src, err := sqldataset.Open(adapter, features)
		if err != nil {
			return err
		}
		return src.Read(dcc.Context(), lambda)
	}
	return csv.ReadDatasetBySampleFromFilePath(in, features, lambda)
}

/*
outputWriter prepares the configured data output to be written with
samples and returns it along a cleanup function to be called once the
writing is done.
*/
func (dcc *datasetCmdConfig) outputWriter(features []feature.Feature) (writableDataset, func(), error) {
	noop := func() {}
	out := dcc.dataOutput
	switch {
	case strings.HasPrefix(out, "postgresql://"):
		dcc.Logf("Creating PostgreSQL adapter for url %s to dump output dataset...", out)
		adapter, err := pgadapter.New(out)
		if err != nil {
			return nil, noop, err
		}
		src, err := sqldataset.Create(dcc.Context(), adapter, features)
		if err != nil {
			return nil, noop, err
		}
		return &flushableSampleWriter{src}, noop, nil
	case strings.HasPrefix(out, "mongodb://"):
		dcc.Logf("Dialing MongoDB at %s to dump output dataset...", out)
		session, err := mgo.Dial(out)
		if err != nil {
			return nil, noop, err
		}
		src, err := mongodataset.Open(dcc.Context(), session, features)
		if err != nil {
			session.Close()
			return nil, noop, err
		}
		return &flushableSampleWriter{src}, func() { session.Close() }, nil
	case strings.HasPrefix(out, "redis://"):
		dcc.Logf("Connecting to redis at %s to dump output dataset...", out)
		rc, err := redisClient(out)
		if err != nil {
			return nil, noop, err
		}
		return &flushableSampleWriter{redisdataset.New(rc, "", features)}, func() { rc.Close() }, nil
	case strings.HasSuffix(out, ".db"):
		dcc.Logf("Creating SQLite3 adapter for file %s to dump output dataset...", out)
		adapter, err := sqlite3adapter.New(out)
		if err != nil {
			return nil, noop, err
		}
		src, err := sqldataset.Create(dcc.Context(), adapter, features)
		if err != nil {
			return nil, noop, err
		}
		return &flushableSampleWriter{src}, noop, nil
	}
	var outputFile *os.File
	var err error
	if out != "" {
		dcc.Logf("Creating %s to dump output dataset...", out)
		outputFile, err = os.Create(out)
		if err != nil {
			return nil, noop, err
		}
	} else {
		dcc.Logf("Using STDOUT to dump output dataset...")
		outputFile = os.Stdout
	}
	output, err := csv.NewWriter(outputFile, features)
	if err != nil {
		return nil, noop, err
	}
	return output, noop, nil
}

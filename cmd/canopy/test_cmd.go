package main

import (
	"fmt"
	"os"

	"github.com/canopyml/canopy"
	"github.com/canopyml/canopy/feature/yaml"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	datasourceCmdConfig
	testDataInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{datasourceCmdConfig: datasourceCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Grow a tree from a training dataset and test its performance against a testing dataset`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			classFeature, features, err := splitClassFeature(features, config.classFeature)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			trainingSet, err := config.inputDataset(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			grower := canopy.New(features, classFeature, config.workers)
			t, err := grower.Grow(config.Context(), trainingSet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(5)
			}
			testingConfig := config.datasourceCmdConfig
			testingConfig.dataInput = config.testDataInput
			testingSet, err := testingConfig.inputDataset(features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			count, err := testingSet.Count(config.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "counting testing dataset samples: %v\n", err)
				os.Exit(7)
			}
			config.Logf("Testing tree against a dataset with %d samples...", count)
			samples, err := testingSet.Samples(config.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(8)
			}
			successCount, errorCount := 0, 0
			for _, sample := range samples {
				actual, err := sample.ValueFor(classFeature)
				if err != nil {
					fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
					os.Exit(9)
				}
				prediction, err := t.Classify(sample)
				if err != nil {
					errorCount++
					continue
				}
				fmt.Printf("Actual: %v. Predicted: %v\n", actual, prediction)
				predicted, _ := prediction.PredictedValue()
				if predicted == fmt.Sprintf("%v", actual) {
					successCount++
				}
			}
			config.Logf("Done")
			successRate := 0.0
			if len(samples) > 0 {
				successRate = float64(successCount) / float64(len(samples))
			}
			fmt.Printf("%f success rate, failed to make a prediction for %d samples\n", successRate, errorCount)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.testDataInput), "test-input", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input file (required)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the feature the generated tree should predict (required)")
	cmd.PersistentFlags().BoolVar(&(config.memoryIntensiveDataset), "memory-intensive", false, "force the use of memory-intensive partitioning to decrease time at the cost of increasing memory use")
	cmd.PersistentFlags().BoolVar(&(config.cpuIntensiveDataset), "cpu-intensive", false, "force the use of cpu-intensive partitioning to decrease memory use at the cost of increasing time")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 1, "number of workers developing tree nodes concurrently")
	return cmd
}

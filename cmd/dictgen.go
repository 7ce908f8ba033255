package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/pattern-sonar/logging"
	"github.com/RyanBlaney/pattern-sonar/pattern"
)

var dictgenOutput string

var dictgenCmd = &cobra.Command{
	Use:   "dictgen",
	Short: "Generate the reference dictionary offline",
	Long: `Run the classification pipeline for every byte value and write the
resulting 256 squared-magnitude reference spectra, together with the
generation parameters, as a YAML dictionary.

The runtime classifier refuses a dictionary whose parameters differ from its
own configuration, so regenerate the dictionary whenever pattern_bits,
repetitions, grid_points or table_size change.`,
	RunE: runDictgen,
}

func init() {
	dictgenCmd.Flags().StringVarP(&dictgenOutput, "output", "o", "pattern-sonar-dictionary.yaml",
		"output file for the generated dictionary")
	rootCmd.AddCommand(dictgenCmd)
}

func runDictgen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info("generating reference dictionary", logging.Fields{
		"pattern_bits": cfg.PatternBits,
		"repetitions":  cfg.Repetitions,
		"grid_points":  cfg.GridPoints,
		"table_size":   cfg.TableSize,
	})

	dict, err := pattern.GenerateDictionary(cfg)
	if err != nil {
		return err
	}

	if err := dict.Save(dictgenOutput); err != nil {
		return err
	}

	fmt.Printf("wrote %d reference spectra (%d points each) to %s\n",
		pattern.DictionaryEntries, dict.Points(), dictgenOutput)
	return nil
}

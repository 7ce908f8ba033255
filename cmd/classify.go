package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/pattern-sonar/logging"
	"github.com/RyanBlaney/pattern-sonar/pattern"
)

var classifyDictionary string

var classifyCmd = &cobra.Command{
	Use:   "classify <byte>",
	Short: "Round-trip a byte through the classification pipeline",
	Long: `Expand a byte into its MSB-first bit pattern, replicate it, transform it on
the classification grid, and recover the byte by nearest-neighbor matching.

The byte accepts decimal (79), hex (0x4F) or binary (0b01001111) notation.
Without --dictionary the reference dictionary is generated in memory from the
active configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyDictionary, "dictionary", "d", "",
		"reference dictionary file (YAML); generated in memory when empty")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	value, err := parseByteValue(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var dict *pattern.Dictionary
	if classifyDictionary != "" {
		dict, err = pattern.LoadDictionary(classifyDictionary, cfg)
		if err != nil {
			return err
		}
		logging.Debug("dictionary loaded", logging.Fields{
			"file": classifyDictionary,
		})
	}

	pipeline, err := pattern.NewPipeline(cfg, dict)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	result, err := pipeline.ProcessByte(value)
	if err != nil {
		return err
	}

	fmt.Printf("sent:      0x%02X (%s, decimal %d)\n", value, formatBits(result.Bits), value)
	fmt.Printf("recovered: 0x%02X (%s, decimal %d)\n",
		result.Value, formatBits(pattern.BitsOf(result.Value, cfg.PatternBits)), result.Value)
	fmt.Printf("distance:  %.6f\n", result.MinDistance)
	fmt.Printf("elapsed:   %s\n", result.Elapsed)

	fmt.Println("\ntop matches:")
	for i, match := range result.Shortlist {
		fmt.Printf("  %d. 0x%02X (%s, decimal %3d) - distance: %.6f\n",
			i+1, match.Value, formatBits(pattern.BitsOf(match.Value, cfg.PatternBits)),
			match.Value, match.Distance)
	}

	if result.Value != value {
		return fmt.Errorf("round trip failed: sent 0x%02X, recovered 0x%02X", value, result.Value)
	}
	return nil
}

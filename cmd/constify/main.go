package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"constify/internal/config"
	"constify/internal/pipeline"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "constify <input-path> <constants-output> <reserved-path>",
		Short: "Extract string literals into a generated constants file",
		Long: "constify scans JavaScript sources, lifts string literals into a generated\n" +
			"constants file, and rewrites the sources to reference the constants.\n" +
			"The third path argument is reserved and currently unused.",
		Args: cobra.ExactArgs(3),
		RunE: run,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to an optional YAML config file")
}

func run(cmd *cobra.Command, args []string) error {
	inputPath, constantsPath := args[0], args[1]
	// args[2] is the reserved path parameter: accepted, never consulted.

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("📂 Scanning: %s\n", inputPath)

	p := pipeline.NewPipeline(cfg)
	res, err := p.Run(inputPath, constantsPath)
	if errors.Is(err, pipeline.ErrNoFiles) {
		color.Yellow("⚠️  No source files found under %s; nothing written.", inputPath)
		return nil
	}
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("✍️  Rewrote %d files (%d safe constants, %d for manual review).\n",
		res.FilesProcessed, res.SafeBindings, res.ManualBindings)
	color.Green("✅ Constants written to %s", res.ConstantsPath)
	return nil
}

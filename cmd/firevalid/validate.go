package main

import (
	"context"

	"github.com/spf13/cobra"

	"firevalid/internal/config"
	"firevalid/internal/logging"
	"firevalid/internal/validate"
)

var (
	valConfigPath string
	valSchemaPath string
	valOutPath    string
	valQuiet      bool
	valTUI        bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run one validation case",
	Long:  "validate reconstructs the simulated and observed burn histories for a case and scores their grid-aligned agreement per observation cohort.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(valConfigPath, valSchemaPath)
		if err != nil {
			return err
		}

		writer, err := newWriter(valOutPath, valQuiet, valTUI)
		if err != nil {
			return err
		}

		logger := logging.New()
		ctx := logging.NewContext(context.Background(), logger)

		engine := validate.NewEngine(cfg, writer)
		_, err = engine.Run(ctx)
		return err
	},
}

func init() {
	validateCmd.Flags().StringVar(&valConfigPath, "config", "config/case.yaml", "Path to case configuration YAML")
	validateCmd.Flags().StringVar(&valSchemaPath, "schema", "schemas/case.cue", "Path to CUE schema file")
	validateCmd.Flags().StringVar(&valOutPath, "out", "", "Path to write the flat metrics JSON record")
	validateCmd.Flags().BoolVar(&valQuiet, "quiet", false, "Suppress the STDOUT summary")
	validateCmd.Flags().BoolVar(&valTUI, "tui", false, "Show results in a terminal table after the run")
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ozledger/taxengine/internal/calculation"
	"github.com/ozledger/taxengine/internal/config"
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/ozledger/taxengine/internal/output"
	"github.com/ozledger/taxengine/internal/rates"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taxengine",
	Short: "Multi-jurisdiction tax compliance rule engine",
	Long:  "Evaluates payroll tax, concessional superannuation caps and trust distribution compliance for a reporting entity over a financial year.",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "taxengine %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// loadBatch parses the input file and resolves the rate table: the file's
// embedded table wins, then a --rates file, then the static fallback.
func loadBatch(cmd *cobra.Command, inputFile string) (*config.BatchInput, *domain.RateConfig, error) {
	parser := config.NewInputParser()
	batch, err := parser.LoadFromFile(inputFile)
	if err != nil {
		return nil, nil, err
	}

	if batch.Rates != nil {
		cfg := batch.Rates
		if cfg.Period == "" {
			cfg.Period = batch.Entity.Period
		}
		if cfg.Source == "" {
			cfg.Source = "input_file"
			cfg.Confidence = domain.ConfidenceHigh
		}
		return batch, cfg, nil
	}

	var logger calculation.Logger = calculation.NopLogger()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger = simpleCLILogger{}
	}

	var live rates.Source
	if ratesFile, _ := cmd.Flags().GetString("rates"); ratesFile != "" {
		live = &fileRateSource{path: ratesFile}
	}
	resolver := rates.NewResolver(live, logger)
	cfg, err := resolver.Resolve(context.Background(), batch.Entity.Period)
	if err != nil {
		return nil, nil, err
	}
	return batch, cfg, nil
}

// fileRateSource loads a rate table from a YAML file, standing in for the
// live rate collaborator.
type fileRateSource struct {
	path string
}

func (f *fileRateSource) FetchCurrentRates(_ context.Context, period string) (*domain.RateConfig, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file %s: %w", f.path, err)
	}
	cfg, err := rates.ParseConfig(data)
	if err != nil {
		return nil, err
	}
	if cfg.Period == "" {
		cfg.Period = period
	}
	return cfg, nil
}

func payrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payroll [input-file]",
		Short: "Assess multi-state payroll tax for one entity and period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, cfg, err := loadBatch(cmd, args[0])
			if err != nil {
				return err
			}
			analysis, err := calculation.AnalyzePayrollTax(batch.DomainWageRecords(), cfg, batch.GroupingContext())
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return output.NewReportGenerator().PayrollReport(analysis, format)
		},
	}
}

func superCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "super [input-file]",
		Short: "Assess concessional superannuation caps with carry-forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, cfg, err := loadBatch(cmd, args[0])
			if err != nil {
				return err
			}
			analysis, err := calculation.AnalyzeSuperannuationCaps(batch.DomainContributions(), cfg)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return output.NewReportGenerator().CapReport(analysis, format)
		},
	}
}

func trustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trust [input-file]",
		Short: "Flag trust distribution compliance issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, cfg, err := loadBatch(cmd, args[0])
			if err != nil {
				return err
			}
			analyses, err := calculation.AnalyzeTrustDistributions(batch.DomainDistributions(), cfg)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return output.NewReportGenerator().TrustReport(analyses, format)
		},
	}
}

func main() {
	rootCmd.PersistentFlags().String("format", "console", "Output format (console, json, csv)")
	rootCmd.PersistentFlags().String("rates", "", "YAML rate table file (defaults to the compiled-in fallback)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	rootCmd.AddCommand(payrollCmd())
	rootCmd.AddCommand(superCmd())
	rootCmd.AddCommand(trustCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

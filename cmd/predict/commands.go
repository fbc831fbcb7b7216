package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/config"
	"stock-predictor/internal/services"
	applog "stock-predictor/pkg/logger"
	"stock-predictor/pkg/predictor"
)

func newRootCmd() *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "predict",
		Short:         "Stock price forecasts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				text.DisableColors()
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(newRunCmd())
	root.AddCommand(newCompaniesCmd())
	root.AddCommand(newIndicesCmd())
	return root
}

type runOptions struct {
	index       string
	symbol      string
	buyPrice    string
	shares      string
	days        string
	apiURL      string
	timeout     time.Duration
	chartWindow int
	logLevel    string
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Request a forecast and print the result card",
		Long: `Request a one-year forecast for a company and print:
- the 6 month, 1 year and final predicted prices
- the total investment and the projected profit or loss
- the first days of the forecast series`,
		Example: `  predict run --symbol AAPL --buy-price 180 --shares 5
  predict run --index nasdaq100 --symbol NVDA --api-url http://localhost:5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", string(catalog.DefaultIndex), "Index to pick the company from (sp500, nasdaq100)")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "Company symbol (defaults to the first company of the index)")
	cmd.Flags().StringVar(&opts.buyPrice, "buy-price", "100", "Hypothetical buy price")
	cmd.Flags().StringVar(&opts.shares, "shares", "10", "Number of shares")
	cmd.Flags().StringVar(&opts.days, "days", "365", "Days to predict (informational, the service is always asked for 365)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "Prediction service base URL (defaults to PREDICTION_API_URL)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout for the prediction request")
	cmd.Flags().IntVar(&opts.chartWindow, "chart-window", services.DefaultChartWindow, "Number of forecast points to list")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func runForecast(cmd *cobra.Command, opts runOptions) error {
	baseURL := opts.apiURL
	if baseURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("no --api-url given: %w", err)
		}
		baseURL = cfg.PredictionAPIURL
	}

	l := applog.New(applog.Config{Level: opts.logLevel, Output: os.Stderr})

	cat, err := catalog.LoadEmbedded()
	if err != nil {
		return err
	}

	selection, err := buildSelection(cat, opts)
	if err != nil {
		return err
	}

	controller := services.NewForecastController(predictor.NewClient(baseURL, opts.timeout), l)
	sel := selection.Selection()

	fmt.Fprintf(cmd.ErrOrStderr(), "Predicting %s...\n", sel.Symbol)
	done := controller.RequestForecast(cmd.Context(), sel.Symbol)
	select {
	case <-done:
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	state := controller.State()
	renderResult(cmd.OutOrStdout(), cat, sel, state, opts.chartWindow)

	if state.Status == services.StatusFailed {
		return errors.New(state.Message)
	}
	return nil
}

// buildSelection applies the flags through the selection manager so the
// same membership rules hold as for interactive sessions.
func buildSelection(cat *catalog.Catalog, opts runOptions) (*services.SelectionManager, error) {
	id, ok := catalog.ParseID(opts.index)
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrUnknownIndex, opts.index)
	}

	selection := services.NewSelectionManager(cat)
	if err := selection.SetIndex(id); err != nil {
		return nil, err
	}
	if opts.symbol != "" {
		if err := selection.SetSymbol(opts.symbol); err != nil {
			return nil, err
		}
	}
	selection.SetBuyPrice(opts.buyPrice)
	selection.SetShareCount(opts.shares)
	selection.SetHorizonDays(opts.days)
	return selection, nil
}

func newCompaniesCmd() *cobra.Command {
	var index string

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List the companies of an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}
			id, ok := catalog.ParseID(index)
			if !ok {
				return fmt.Errorf("%w: %s", services.ErrUnknownIndex, index)
			}
			companies, _ := cat.Companies(id)
			renderCompanies(cmd.OutOrStdout(), cat.Name(id), companies)
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", string(catalog.DefaultIndex), "Index to list (sp500, nasdaq100)")
	return cmd
}

func newIndicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indices",
		Short: "List the available indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}
			renderIndices(cmd.OutOrStdout(), cat.Indices())
			return nil
		},
	}
}

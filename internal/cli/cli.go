package cli

import (
	"context"
	"fmt"
	"time"

	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/usecase"

	"github.com/spf13/cobra"
)

// Opener builds the usecase the commands run against. The returned func
// releases its resources.
type Opener func(ctx context.Context) (usecase.RateUsecase, func(), error)

type Config struct {
	Ctx  context.Context
	Open Opener
	Now  func() time.Time
}

func NewRootCommand(config *Config) *cobra.Command {
	if config.Now == nil {
		config.Now = time.Now
	}

	rootCmd := &cobra.Command{
		Use:           "ratesctl",
		Short:         "NBRB currency catalog and rate loader",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		importCommand(config),
		catalogCommand(config),
		rateCommand(config),
		currenciesCommand(config),
	)
	return rootCmd
}

func withUsecase(config *Config, fn func(ctx context.Context, uc usecase.RateUsecase) error) error {
	ctx := config.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	uc, release, err := config.Open(ctx)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer release()

	return fn(ctx, uc)
}

func importCommand(config *Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the NBRB daily rates for a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = config.Now().Format(entity.DateLayout)
			}
			return withUsecase(config, func(ctx context.Context, uc usecase.RateUsecase) error {
				resp, err := uc.ImportRates(ctx, date)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s, %d rows]\n", resp.Message, resp.Status, resp.Inserted)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date in YYYY-MM-DD format (default today)")
	return cmd
}

func catalogCommand(config *Config) *cobra.Command {
	var ids []int

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Load the NBRB currency catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsecase(config, func(ctx context.Context, uc usecase.RateUsecase) error {
				resp, err := uc.LoadCatalog(ctx, ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d currencies.\n", resp.Loaded)
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&ids, "id", nil, "Restrict the load to these NBRB currency ids")
	return cmd
}

func rateCommand(config *Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "rate CODE",
		Short: "Show the rate of a currency with its day-over-day change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = config.Now().Format(entity.DateLayout)
			}
			return withUsecase(config, func(ctx context.Context, uc usecase.RateUsecase) error {
				resp, err := uc.GetRate(ctx, date, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date in YYYY-MM-DD format (default today)")
	return cmd
}

func currenciesCommand(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List the stored currency catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUsecase(config, func(ctx context.Context, uc usecase.RateUsecase) error {
				currencies, err := uc.ListCurrencies(ctx)
				if err != nil {
					return err
				}
				for _, c := range currencies {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", c.ID, c.String())
				}
				return nil
			})
		},
	}
}

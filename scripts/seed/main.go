package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/krishi-ledger/krishi-ledger/internal/app"
	"github.com/krishi-ledger/krishi-ledger/internal/platform/cache"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/view"
	"github.com/krishi-ledger/krishi-ledger/jobs"
)

// storeOpener connects the sales store. The returned func releases it.
type storeOpener func(ctx context.Context) (sales.Repository, *time.Location, func(), error)

// sweepEnqueuer queues an overdue sweep on the worker.
type sweepEnqueuer func(ctx context.Context) error

type seedOptions struct {
	keep   bool
	dryRun bool
	sweep  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(configuredStore, enqueueSweep, os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(open storeOpener, enqueue sweepEnqueuer, out io.Writer) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample sales records",
		Long: `Seed clears the configured sales store and inserts the fixed sample records,
then prints a summary of revenue, units, vendors, areas and units per product.

The store is chosen by STORE_DRIVER (postgres, mongo or memory) as for the server.`,
		Example: `  # Replace every stored sale with the samples
  seed

  # Append the samples without clearing
  seed --keep

  # Print the summary only
  seed --dry-run

  # Ask the worker to flip past-due samples to Overdue
  seed --sweep`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runSeed(cmd.Context(), open, opts, cmd.OutOrStdout()); err != nil {
				return err
			}
			if opts.sweep && !opts.dryRun {
				if err := enqueue(cmd.Context()); err != nil {
					return fmt.Errorf("enqueue overdue sweep: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Queued an overdue sweep")
			}
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "Append the samples instead of clearing the store")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the summary without touching the store")
	cmd.Flags().BoolVar(&opts.sweep, "sweep", false, "Queue an overdue sweep once the samples are stored")
	return cmd
}

func runSeed(ctx context.Context, open storeOpener, opts seedOptions, out io.Writer) error {
	if opts.dryRun {
		batch, err := sampleSales(time.UTC)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Dry run: %d sample sales records would be inserted\n", len(batch))
		printSummary(out, batch)
		return nil
	}

	repo, loc, closeStore, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	batch, err := sampleSales(loc)
	if err != nil {
		return err
	}
	service := sales.NewService(repo, sales.ServiceConfig{Location: loc})

	if opts.keep {
		for i, sale := range batch {
			created, err := service.Create(ctx, sale)
			if err != nil {
				return fmt.Errorf("insert sample %d: %w", i, err)
			}
			batch[i] = created
		}
		fmt.Fprintf(out, "Appended %d sample sales records\n", len(batch))
	} else {
		n, err := service.Seed(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Cleared existing data")
		fmt.Fprintf(out, "Successfully inserted %d sample sales records\n", n)
	}
	printSummary(out, batch)
	return nil
}

func printSummary(out io.Writer, batch []sales.Sale) {
	p := message.NewPrinter(language.MustParse("en-IN"))
	metrics := sales.ComputeMetrics(batch)

	p.Fprintf(out, "\n=== Sample Data Summary ===\n")
	p.Fprintf(out, "Total Revenue: %s\n", view.FormatAmount(metrics.TotalRevenue))
	p.Fprintf(out, "Total Products Sold: %d\n", metrics.TotalProductsSold)
	p.Fprintf(out, "Unique Vendors: %d\n", metrics.UniqueVendors)
	p.Fprintf(out, "Areas Covered: %d\n", metrics.UniqueAreasCovered)

	p.Fprintf(out, "\n=== Product Breakdown ===\n")
	units := make(map[string]int)
	for _, s := range batch {
		units[s.ProductOrdered] += s.QtyOrdered
	}
	for _, product := range sales.DeriveFilterOptions(batch).Products {
		p.Fprintf(out, "%s: %d units\n", product, units[product])
	}
}

func configuredStore(ctx context.Context) (sales.Repository, *time.Location, func(), error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, nil, err
	}
	repo, closeStore, err := app.OpenSalesRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("seeding sales store", slog.String("driver", cfg.StoreDriver))
	return repo, loc, closeStore, nil
}

func enqueueSweep(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	client, err := jobs.NewClient(redisOpts.AsynqOpt())
	if err != nil {
		return err
	}
	defer client.Close()
	_, err = client.EnqueueOverdueSweep(ctx, jobs.TriggerManual)
	return err
}

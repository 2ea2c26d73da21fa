package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/application/composer"
	"github.com/invoicedesk/client/internal/application/feed"
	reportapp "github.com/invoicedesk/client/internal/application/report"
	"github.com/invoicedesk/client/internal/domain/invoice"
	"github.com/invoicedesk/client/internal/domain/report"
	"github.com/invoicedesk/client/internal/infrastructure/api"
	"github.com/invoicedesk/client/internal/infrastructure/cache"
	"github.com/invoicedesk/client/internal/infrastructure/config"
	"github.com/invoicedesk/client/internal/infrastructure/logger"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "invoicectl",
		Usage: "operator console for the invoicing API",
		Commands: []*cli.Command{
			productsCommand(),
			invoiceCreateCommand(),
			invoiceListCommand(),
			revenueCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads config and builds the shared logger and API client
func bootstrap() (*api.Client, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(log.Named("api")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build api client: %w", err)
	}
	return client, log, nil
}

func productsCommand() *cli.Command {
	return &cli.Command{
		Name:      "products",
		Usage:     "search the product catalog",
		ArgsUsage: "<query>",
		Action: func(c *cli.Context) error {
			client, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			catalogCache := cache.NewCatalogCache(client, cache.WithLogger(log.Named("catalog")))
			if err := catalogCache.Load(c.Context); err != nil {
				return err
			}

			query := c.Args().First()
			for _, p := range catalogCache.Search(query) {
				fmt.Printf("%6d  %-30s  %12s  stock %d\n", p.ID, p.Name, p.UnitPrice.StringFixed(), p.StockCount)
			}
			return nil
		},
	}
}

func invoiceCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "compose and submit an invoice",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Required: true, Usage: "invoice date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "customer", Required: true, Usage: "customer name"},
			&cli.StringFlag{Name: "salesperson", Required: true, Usage: "salesperson name"},
			&cli.StringFlag{Name: "notes", Required: true, Usage: "invoice notes (min 10 characters)"},
			&cli.StringSliceFlag{Name: "item", Required: true, Usage: "line item as <product-id>:<quantity>, repeatable"},
		},
		Action: func(c *cli.Context) error {
			client, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			catalogCache := cache.NewCatalogCache(client, cache.WithLogger(log.Named("catalog")))
			if err := catalogCache.Load(c.Context); err != nil {
				return err
			}

			comp := composer.New(catalogCache, client, composer.WithLogger(log.Named("composer")))
			for field, flag := range map[invoice.Field]string{
				invoice.FieldDate:            "date",
				invoice.FieldCustomerName:    "customer",
				invoice.FieldSalespersonName: "salesperson",
				invoice.FieldNotes:           "notes",
			} {
				if err := comp.SetField(field, c.String(flag)); err != nil {
					return err
				}
			}

			for index, spec := range c.StringSlice("item") {
				productID, quantity, err := parseItemSpec(spec)
				if err != nil {
					return err
				}
				product, ok := catalogCache.ProductByID(productID)
				if !ok {
					return fmt.Errorf("product %d not found in catalog", productID)
				}
				if err := comp.AddItem(product); err != nil {
					return err
				}
				if err := comp.SetItemQuantity(index, quantity); err != nil {
					return err
				}
			}

			if errs := comp.Validate(); len(errs) > 0 {
				for field, message := range errs {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
				}
				return fmt.Errorf("draft is not submittable")
			}

			persisted, err := comp.Submit(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("invoice #%d created, total %s\n", persisted.ID, persisted.TotalAmount.String())
			return nil
		},
	}
}

func invoiceListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "browse persisted invoices in index order",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "maximum invoices to fetch"},
		},
		Action: func(c *cli.Context) error {
			client, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			loader := feed.New(client, feed.WithLogger(log.Named("feed")))
			defer loader.Close()

			if err := loader.Start(c.Context); err != nil {
				return err
			}
			for loader.HasMore() && len(loader.Feed()) < c.Int("limit") {
				if err := loader.LoadMore(c.Context); err != nil {
					return err
				}
			}

			for _, record := range loader.Feed() {
				fmt.Printf("#%-6d %s  %-25s %-15s %12s\n",
					record.ID, record.Date, record.CustomerName, record.SalespersonName,
					record.TotalAmount.StringFixed())
			}
			if loader.HasMore() {
				fmt.Println("(more available, raise --limit)")
			}
			return nil
		},
	}
}

func revenueCommand() *cli.Command {
	return &cli.Command{
		Name:  "revenue",
		Usage: "show the revenue time series",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Value: "daily", Usage: "daily, weekly or monthly"},
		},
		Action: func(c *cli.Context) error {
			client, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			service := reportapp.NewService(client, reportapp.WithLogger(log.Named("report")))
			points, err := service.Series(c.Context, report.Period(c.String("period")))
			if err != nil {
				return err
			}
			for _, point := range points {
				fmt.Printf("%-12s %15s\n", point.Bucket, point.Revenue.StringFixed())
			}
			return nil
		},
	}
}

// parseItemSpec splits a "<product-id>:<quantity>" flag value. The
// quantity half stays a string; the composer validates it.
func parseItemSpec(spec string) (int64, string, error) {
	parts := strings.SplitN(spec, ":", 2)
	productID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid item spec %q: product ID must be numeric", spec)
	}
	quantity := "1"
	if len(parts) == 2 {
		quantity = parts[1]
	}
	return productID, quantity, nil
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/turfaa/halodoc-medisend-api/client"
	"github.com/turfaa/halodoc-medisend-api/domain"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage error")

// Usage describes the supported commands.
const Usage = `usage: medisend <command> [flags]

commands:
  products     [-page N] [-per-page N] [-name S]   print one page of products
  unavailable  [-per-page N]                       print every inactive or out-of-stock product
  update       [-file product.json]                replace a product, reading stdin when -file is omitted or "-"
`

type command func(a *App, ctx context.Context, args []string) error

var commands = map[string]command{
	"products":    (*App).runProducts,
	"unavailable": (*App).runUnavailable,
	"update":      (*App).runUpdate,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected arguments %v", ErrUsage, fs.Name(), fs.Args())
	}
	return nil
}

func (a *App) runProducts(ctx context.Context, args []string) error {
	fs := newFlagSet("products")
	pageNo := fs.Int("page", 1, "page number, starting at 1")
	perPage := fs.Int("per-page", a.cfg.PerPage, "products per page")
	name := fs.String("name", "", "only products whose name matches")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	page, err := a.client.ListProducts(ctx, client.ListProductsParams{
		PageNo:  *pageNo,
		PerPage: *perPage,
		Name:    *name,
	})
	if err != nil {
		return err
	}
	return a.writeJSON(page.ToMap(domain.Product.ToMap))
}

func (a *App) runUnavailable(ctx context.Context, args []string) error {
	fs := newFlagSet("unavailable")
	perPage := fs.Int("per-page", a.cfg.PerPage, "products per page while walking the catalog")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	products, err := a.client.ListUnavailableProducts(ctx, *perPage)
	if err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return a.writeJSON(products)
}

func (a *App) runUpdate(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	file := fs.String("file", "-", "product JSON file, - for stdin")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	product, err := a.readProduct(*file)
	if err != nil {
		return err
	}

	updated, err := a.client.UpdateProduct(ctx, product)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", updated.ID))
	return a.writeJSON(updated)
}

func (a *App) readProduct(path string) (domain.Product, error) {
	r := a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.Product{}, fmt.Errorf("open product file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	tree, err := domain.DecodeTree(r)
	if err != nil {
		return domain.Product{}, fmt.Errorf("read product: %w", err)
	}
	product, err := domain.ProductFromMap(tree)
	if err != nil {
		return domain.Product{}, fmt.Errorf("read product: %w", err)
	}
	return product, nil
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

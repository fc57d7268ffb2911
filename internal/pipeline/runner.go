// Package pipeline runs one batch: extract, transform, reconcile, load and
// report, with the run lock and metrics around it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salesetl/internal/extract"
	"salesetl/internal/metrics"
	"salesetl/internal/model"
	"salesetl/internal/quality"
	"salesetl/internal/report"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
	"salesetl/internal/transformer"
)

// Locker guards a run against concurrent runs of the same job.
type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// Runner executes a batch. Provider, Repo and Sink are required; Lock is
// optional.
type Runner struct {
	Job      string
	Provider extract.Provider
	Repo     storage.Repository
	Sink     report.Sink
	Lock     Locker

	// Format is the report format; empty means text.
	Format string

	Sales transformer.SalesOptions

	// Parallel runs the three table transforms concurrently.
	Parallel bool

	// ResetTables drops and recreates the destination tables before loading.
	ResetTables bool

	Log *zap.Logger

	now func() time.Time
}

// cleaned is the output of the transform and reconcile stages.
type cleaned struct {
	customers []model.Customer
	products  []model.Product
	orders    []model.Order
	items     []model.OrderItem
}

// Run executes the batch and returns the assembled report. Once the data is
// transformed the report is always written, even when the load fails; the
// load error is then returned alongside the report.
func (r *Runner) Run(ctx context.Context) (quality.Report, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := r.now
	if now == nil {
		now = time.Now
	}

	rep := quality.Report{RunID: uuid.NewString(), Job: r.Job}
	log = log.With(zap.String("run_id", rep.RunID), zap.String("job", r.Job))
	log.Info("pipeline: start")
	start := time.Now()

	if r.Lock != nil {
		if err := r.Lock.Acquire(ctx); err != nil {
			return rep, fmt.Errorf("acquire run lock: %w", err)
		}
		defer func() {
			if err := r.Lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("pipeline: release lock", zap.Error(err))
			}
		}()
	}

	batch, err := step(r.Job, "extract", func() (extract.Batch, error) {
		return r.Provider.Extract(ctx)
	})
	if err != nil {
		return rep, fmt.Errorf("extract: %w", err)
	}
	rep.ParseErrors = batch.ParseErrors
	metrics.RecordRow(r.Job, "parse_errors", int64(rep.TotalParseErrors()))

	data, err := step(r.Job, "transform", func() (cleaned, error) {
		return r.transform(ctx, batch, &rep)
	})
	if err != nil {
		return rep, fmt.Errorf("transform: %w", err)
	}

	data, _ = step(r.Job, "reconcile", func() (cleaned, error) {
		data.orders, data.items, rep.Reconcile = transformer.Reconcile(
			data.customers, data.products, data.orders, data.items)
		return data, nil
	})
	log.Info("pipeline: reconciled",
		zap.Int("orders_filtered", rep.Reconcile.OrdersFiltered),
		zap.Int("order_items_filtered", rep.Reconcile.OrderItemsFiltered),
	)

	tables := tableRows(data)
	rep.Fingerprints = make(map[string]string, len(tables))
	for _, t := range tables {
		rep.Fingerprints[t.Table.FQN] = quality.Fingerprint(t.Rows)
	}

	loadErr := r.load(ctx, log, tables, &rep)

	rep.GeneratedAt = now()
	_, reportErr := step(r.Job, "report", func() (struct{}, error) {
		text, err := report.Render(rep, r.Format)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, r.Sink.Write(ctx, text)
	})
	r.recordMetrics(rep)

	if err := errors.Join(loadErr, wrap("write report", reportErr)); err != nil {
		log.Error("pipeline: failed", zap.Error(err))
		return rep, err
	}
	s := rep.Summary()
	log.Info("pipeline: done",
		zap.Int("processed", s.Processed),
		zap.Int("loaded", s.Loaded),
		zap.Int("issues_resolved", s.IssuesResolved),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
	)
	return rep, nil
}

// transform runs the three table transforms, concurrently when Parallel is
// set. Inputs are cloned by the transforms, so sharing the batch is safe.
func (r *Runner) transform(ctx context.Context, b extract.Batch, rep *quality.Report) (cleaned, error) {
	var out cleaned
	fns := []func() error{
		func() (err error) {
			out.customers, rep.Customers, err = transformer.TransformCustomers(b.Customers)
			return err
		},
		func() (err error) {
			out.products, rep.Products, err = transformer.TransformProducts(b.Products)
			return err
		},
		func() (err error) {
			out.orders, out.items, rep.Sales, err = transformer.ReshapeSales(b.Sales, r.Sales)
			return err
		},
	}

	if !r.Parallel {
		for _, fn := range fns {
			if err := ctx.Err(); err != nil {
				return cleaned{}, err
			}
			if err := fn(); err != nil {
				return cleaned{}, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}
	if err := g.Wait(); err != nil {
		return cleaned{}, err
	}
	return out, nil
}

func (r *Runner) load(ctx context.Context, log *zap.Logger, tables []storage.TableRows, rep *quality.Report) error {
	loader := storage.Loader{Repo: r.Repo, Reset: r.ResetTables, Log: log}
	loaded, err := step(r.Job, "load", func() (map[string]int64, error) {
		return loader.Load(ctx, tables)
	})

	rep.Load = &quality.LoadStatus{OK: err == nil, Loaded: loaded}
	for table, n := range loaded {
		metrics.RecordTableRows(r.Job, table, n)
	}
	if err == nil {
		return nil
	}

	var le *storage.LoadError
	if errors.As(err, &le) {
		rep.Load.Table = le.Table
		rep.Load.Error = le.Err.Error()
	} else {
		rep.Load.Error = err.Error()
	}
	return err
}

func (r *Runner) recordMetrics(rep quality.Report) {
	s := rep.Summary()
	metrics.RecordRow(r.Job, "processed", int64(s.Processed))
	metrics.RecordRow(r.Job, "duplicates",
		int64(rep.Customers.Duplicates+rep.Products.Duplicates+rep.Sales.Duplicates))
	metrics.RecordRow(r.Job, "missing_required",
		int64(rep.Customers.MissingEmails+rep.Products.MissingPrices+rep.Sales.Dropped))
	metrics.RecordRow(r.Job, "ri_filtered",
		int64(rep.Reconcile.OrdersFiltered+rep.Reconcile.OrderItemsFiltered))
	if rep.Load != nil && rep.Load.OK {
		metrics.RecordRow(r.Job, "loaded", int64(s.Loaded))
	}

	for _, q := range []struct {
		table, kind string
		value       int
	}{
		{schema.CustomersTable, "duplicates", rep.Customers.Duplicates},
		{schema.CustomersTable, "missing_emails", rep.Customers.MissingEmails},
		{schema.CustomersTable, "missing_ids", rep.Customers.MissingIDs},
		{schema.ProductsTable, "duplicates", rep.Products.Duplicates},
		{schema.ProductsTable, "missing_prices", rep.Products.MissingPrices},
		{schema.ProductsTable, "missing_stock", rep.Products.MissingStock},
		{schema.ProductsTable, "missing_ids", rep.Products.MissingIDs},
		{"sales", "duplicates", rep.Sales.Duplicates},
		{"sales", "missing_customer_ids", rep.Sales.MissingCustomerIDs},
		{"sales", "missing_product_ids", rep.Sales.MissingProductIDs},
		{"sales", "missing_dates", rep.Sales.MissingDates},
		{"sales", "dropped", rep.Sales.Dropped},
		{schema.OrdersTable, "ri_filtered", rep.Reconcile.OrdersFiltered},
		{schema.OrderItemsTable, "ri_filtered", rep.Reconcile.OrderItemsFiltered},
	} {
		metrics.RecordQuality(r.Job, q.table, q.kind, q.value)
	}
}

// step times fn and records it as one job step.
func step[T any](job, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return v, err
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// tableRows lays out the cleaned data in load order, parents first.
func tableRows(d cleaned) []storage.TableRows {
	return []storage.TableRows{
		{Table: schema.Customers, Rows: rowsOf(d.customers)},
		{Table: schema.Products, Rows: rowsOf(d.products)},
		{Table: schema.Orders, Rows: rowsOf(d.orders)},
		{Table: schema.OrderItems, Rows: rowsOf(d.items)},
	}
}

func rowsOf[T interface{ Values() []any }](xs []T) [][]any {
	out := make([][]any, len(xs))
	for i, x := range xs {
		out[i] = x.Values()
	}
	return out
}

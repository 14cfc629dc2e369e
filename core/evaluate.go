package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/sync/errgroup"

	ex "ratios.service/data/extensions"
)

const (
	Workers = 8
)

var ErrUnknownRatio = errors.New("unknown ratio")

type ratioFunc func(c *Calculator, ctx context.Context, sec *Security, store *ResultsStore) (null.Float, error)

type ratioDefinition struct {
	name    RatioName
	slug    string
	compute ratioFunc
}

var ratioDefinitions = []ratioDefinition{
	{EPRatioKey, "ep", (*Calculator).EPRatio},
	{PBRatioKey, "pb", (*Calculator).PBRatio},
	{CurrentRatioKey, "current", (*Calculator).CurrentRatio},
	{ROEKey, "roe", (*Calculator).ROEquity},
	{ROAKey, "roa", (*Calculator).ROAssets},
	{DividendGrowthKey, "dividend-growth", (*Calculator).DivGrowth},
}

func AllRatios() []RatioName {
	res := make([]RatioName, len(ratioDefinitions))
	for i, d := range ratioDefinitions {
		res[i] = d.name
	}
	return res
}

// RatioFromSlug resolves the url friendly name of a ratio, case insensitive
func RatioFromSlug(slug string) (RatioName, error) {
	d, err := ex.FilterSingle(ratioDefinitions, func(d ratioDefinition) bool { return ex.AreEqual(d.slug, slug) })
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownRatio, slug)
	}
	return d.name, nil
}

func (r RatioName) Slug() string {
	d, err := ex.FilterSingle(ratioDefinitions, func(d ratioDefinition) bool { return d.name == r })
	if err != nil {
		return ""
	}
	return d.slug
}

func getRatioDefinition(name RatioName) (ratioDefinition, error) {
	d, err := ex.FilterSingle(ratioDefinitions, func(d ratioDefinition) bool { return d.name == name })
	if err != nil {
		return d, fmt.Errorf("%w: %s", ErrUnknownRatio, name)
	}
	return d, nil
}

// Report is the outcome of one evaluation. Values holds every ratio that completed,
// missing markers included. Errors holds the ratios that could not be computed.
type Report struct {
	Symbol  string
	Values  map[RatioName]null.Float
	Errors  map[RatioName]error
	Elapsed time.Duration
}

// Evaluate runs the named ratios, all of them when none are named, one goroutine per ratio.
// Every ratio deposits into the same store, a nil store gets a fresh one.
// A ratio failing does not stop the others, its error is kept on the report.
func (c *Calculator) Evaluate(ctx context.Context, sec *Security, store *ResultsStore, names ...RatioName) (*Report, error) {
	if len(names) == 0 {
		names = AllRatios()
	}

	definitions := make([]ratioDefinition, len(names))
	for i, name := range names {
		d, err := getRatioDefinition(name)
		if err != nil {
			return nil, err
		}
		definitions[i] = d
	}

	if store == nil {
		store = NewResultsStore()
	}

	start := time.Now()
	c.Logger.Infof("Evaluating %d ratios for %s", len(definitions), sec.Symbol())

	// each goroutine owns its own index, no locking needed on these
	values := make([]null.Float, len(definitions))
	errs := make([]error, len(definitions))

	var g errgroup.Group
	for i, d := range definitions {
		g.Go(func() error {
			values[i], errs[i] = d.compute(c, ctx, sec, store)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Symbol:  sec.Symbol(),
		Values:  make(map[RatioName]null.Float, len(definitions)),
		Errors:  make(map[RatioName]error),
		Elapsed: time.Since(start),
	}

	for i, d := range definitions {
		if errs[i] != nil {
			c.Logger.Warnf("Error computing %s for %s: %v", d.name, sec.Symbol(), errs[i])
			report.Errors[d.name] = errs[i]
			continue
		}
		report.Values[d.name] = values[i]
	}

	c.Metrics.observeEvaluation(report.Elapsed)
	c.Logger.Infof("Evaluated %s, %d values, %d errors (time: %v)", sec.Symbol(), len(report.Values), len(report.Errors), report.Elapsed)
	return report, nil
}

// EvaluateMany evaluates every security through a bounded pool of workers.
// Reports come back in the order of the securities.
func (c *Calculator) EvaluateMany(ctx context.Context, securities []*Security, workers int, names ...RatioName) ([]*Report, error) {
	if len(securities) == 0 {
		return nil, nil
	}

	nWorkers := ex.Min(len(securities), max(workers, 1))

	// workers pull from this until it drains
	jobsChannel := make(chan int, len(securities))
	for i := range securities {
		jobsChannel <- i
	}
	close(jobsChannel)

	reports := make([]*Report, len(securities))

	// a cancelled request context stops the pool, one worker erroring cancels the rest
	g, gctx := errgroup.WithContext(ctx)
	for range nWorkers {
		g.Go(func() error {
			for j := range jobsChannel {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				report, err := c.Evaluate(gctx, securities[j], nil, names...)
				if err != nil {
					return err
				}
				reports[j] = report
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

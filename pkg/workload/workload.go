// Package workload drives a hashed order-maintained list with a randomized
// mix of operations, checks its invariants along the way and reports the
// order oracle's work to Prometheus.
package workload

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pliu/orderlist/pkg/config"
	"github.com/pliu/orderlist/pkg/metrics"
	"github.com/pliu/orderlist/pkg/orderlist"
	"github.com/pliu/orderlist/pkg/utils"
)

var quantiles = []float64{50, 90, 99, 100}

type Runner struct {
	list            *orderlist.HashedList[int64]
	rng             *rand.Rand
	clock           clock.Clock
	runID           string
	operations      int
	valueRange      int64
	checkEvery      int
	mix             config.OpMixConfig
	reportFrequency time.Duration
	workStats       *utils.Stats
	last            orderlist.Stats
	done            int
}

func NewRunnerFromConfig(cfg *config.WorkloadConfig) *Runner {
	return NewRunnerWithClock(cfg, clock.New(), uuid.NewString())
}

func NewRunnerWithClock(cfg *config.WorkloadConfig, clk clock.Clock, runID string) *Runner {
	seed := cfg.Seed
	if seed == 0 {
		seed = clk.Now().UnixNano()
	}
	list := orderlist.NewHashed[int64](
		orderlist.WithTagBits(cfg.GetTagBits()),
		orderlist.WithGroupSize(cfg.GetGroupSize()),
		orderlist.WithMergeThreshold(cfg.GetMergeThreshold()),
	)
	statsWindow := time.Duration(cfg.GetStatsWindowSeconds()) * time.Second
	return &Runner{
		list:            list,
		rng:             rand.New(rand.NewSource(seed)),
		clock:           clk,
		runID:           runID,
		operations:      cfg.GetOperations(),
		valueRange:      cfg.GetValueRange(),
		checkEvery:      cfg.GetCheckEvery(),
		mix:             cfg.GetMix(),
		reportFrequency: time.Duration(cfg.GetReportFrequencyMs()) * time.Millisecond,
		workStats:       utils.NewStatsWithClock(statsWindow, clk),
	}
}

// List returns the list the runner operates on.
func (r *Runner) List() *orderlist.HashedList[int64] {
	return r.list
}

// Run performs the configured number of operations. It stops early when ctx
// is cancelled or an invariant violation is detected.
func (r *Runner) Run(ctx context.Context) error {
	log.Info().Str("run", r.runID).Int("operations", r.operations).Msg("Starting workload")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go r.updateQuantilesLoop(ctx)

	for r.done < r.operations {
		select {
		case <-ctx.Done():
			log.Info().Str("run", r.runID).Int("done", r.done).Msg("Workload cancelled")
			return ctx.Err()
		default:
		}
		if err := r.Step(); err != nil {
			return err
		}
		if r.done%r.checkEvery == 0 {
			if err := r.check(); err != nil {
				return err
			}
			log.Info().Str("run", r.runID).Int("done", r.done).Int("groups", r.last.Groups).Msg("Invariants hold")
		}
	}
	if err := r.check(); err != nil {
		return err
	}
	r.updateQuantiles()
	log.Info().Str("run", r.runID).Int64("work", r.last.Work()).Msg("Workload finished")
	return nil
}

func (r *Runner) check() error {
	if err := r.list.CheckInvariants(); err != nil {
		metrics.InvariantFailureCount.WithLabelValues(r.runID).Inc()
		log.Error().Err(err).Str("run", r.runID).Msg("invariant check failed")
		return err
	}
	return nil
}

// Step runs one randomly chosen operation and records its oracle work.
func (r *Runner) Step() error {
	op := r.pick()
	err := r.apply(op)
	r.done++
	metrics.OperationCount.WithLabelValues(r.runID, op).Inc()
	r.record()

	var invErr *orderlist.InvariantError
	if errors.As(err, &invErr) {
		metrics.InvariantFailureCount.WithLabelValues(r.runID).Inc()
		log.Error().Err(err).Str("run", r.runID).Str("op", op).Msg("invariant violated")
		return err
	}
	if err != nil {
		metrics.OperationFailureCount.WithLabelValues(r.runID, op).Inc()
		log.Debug().Err(err).Str("op", op).Msg("operation failed")
	}
	return nil
}

func (r *Runner) pick() string {
	m := r.mix
	weights := []struct {
		op     string
		weight int
	}{
		{"insert", m.Insert},
		{"remove", m.Remove},
		{"lookup", m.Lookup},
		{"view", m.View},
		{"reverse", m.Reverse},
		{"sort", m.Sort},
	}
	total := 0
	for _, w := range weights {
		total += w.weight
	}
	x := r.rng.Intn(total)
	for _, w := range weights {
		if x < w.weight {
			return w.op
		}
		x -= w.weight
	}
	return "insert"
}

func (r *Runner) apply(op string) error {
	l := r.list
	size, err := l.Count()
	if err != nil {
		return err
	}
	switch op {
	case "insert":
		v := r.rng.Int63n(r.valueRange)
		err := l.Insert(r.rng.Intn(size+1), v)
		if errors.Is(err, orderlist.ErrDuplicateValue) {
			return nil
		}
		return err
	case "remove":
		if size == 0 {
			return nil
		}
		if r.rng.Intn(2) == 0 {
			_, err := l.RemoveAt(r.rng.Intn(size))
			return err
		}
		_, err := l.Remove(r.rng.Int63n(r.valueRange))
		return err
	case "lookup":
		return r.lookup(size)
	case "view":
		return r.viewOp(size)
	case "reverse":
		start := r.rng.Intn(size + 1)
		return l.ReverseRange(start, r.rng.Intn(size-start+1))
	case "sort":
		if err := l.Sort(cmp.Compare[int64]); err != nil {
			return err
		}
		sorted, err := l.IsSorted(cmp.Compare[int64])
		if err != nil {
			return err
		}
		if !sorted {
			return &orderlist.InvariantError{Op: "workload sort", Err: errors.New("list is not sorted after Sort")}
		}
		return nil
	}
	return fmt.Errorf("unknown operation %q", op)
}

// lookup compares the labels of two random nodes with their indices.
func (r *Runner) lookup(size int) error {
	if size < 2 {
		_, err := r.list.Contains(r.rng.Int63n(r.valueRange))
		return err
	}
	i, j := r.rng.Intn(size), r.rng.Intn(size)
	a, err := r.list.NodeAt(i)
	if err != nil {
		return err
	}
	b, err := r.list.NodeAt(j)
	if err != nil {
		return err
	}
	before, err := r.list.Precedes(a, b)
	if err != nil {
		return err
	}
	if before != (i < j) {
		return &orderlist.InvariantError{
			Op:  "workload lookup",
			Err: fmt.Errorf("precedes(%d, %d) returned %t", i, j, before),
		}
	}
	return nil
}

// viewOp opens a view, adds a value through it and checks that the view
// sees it while an older view of the same range goes stale.
func (r *Runner) viewOp(size int) error {
	start := r.rng.Intn(size + 1)
	count := r.rng.Intn(size - start + 1)
	older, err := r.list.View(start, count)
	if err != nil {
		return err
	}
	view, err := r.list.View(start, count)
	if err != nil {
		return err
	}
	v := r.rng.Int63n(r.valueRange)
	added, err := view.Add(v)
	if err != nil || !added {
		return err
	}
	found, err := view.Contains(v)
	if err != nil {
		return err
	}
	if !found || older.IsValid() {
		return &orderlist.InvariantError{
			Op:  "workload view",
			Err: fmt.Errorf("value %d found %t through its view, older view valid %t", v, found, older.IsValid()),
		}
	}
	return nil
}

func (r *Runner) record() {
	s := r.list.Stats()
	r.workStats.Add(s.Work() - r.last.Work())
	addWork(r.runID, "relabel", s.Relabels-r.last.Relabels)
	addWork(r.runID, "group_relabel", s.GroupRelabels-r.last.GroupRelabels)
	addWork(r.runID, "split", s.Splits-r.last.Splits)
	addWork(r.runID, "merge", s.Merges-r.last.Merges)
	addWork(r.runID, "redistribution", s.Redistributions-r.last.Redistributions)
	metrics.TagGroupCount.WithLabelValues(r.runID).Set(float64(s.Groups))
	if size, err := r.list.Count(); err == nil {
		metrics.ListSize.WithLabelValues(r.runID).Set(float64(size))
	}
	r.last = s
}

func addWork(runID, kind string, delta int64) {
	if delta > 0 {
		metrics.OracleWorkCount.WithLabelValues(runID, kind).Add(float64(delta))
	}
}

func (r *Runner) updateQuantilesLoop(ctx context.Context) {
	ticker := r.clock.Ticker(r.reportFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.updateQuantiles()
		}
	}
}

func (r *Runner) updateQuantiles() {
	publishQuantiles(r.workStats, metrics.RelabelWorkQuantile, r.runID)
	if avg, ok := r.workStats.Average(); ok {
		metrics.RelabelWorkAverage.WithLabelValues(r.runID).Set(avg)
	}
}

func publishQuantiles(stats *utils.Stats, gauge *prometheus.GaugeVec, runID string) {
	res, ok := stats.Percentiles(quantiles...)
	if !ok {
		return
	}
	for i, val := range quantiles {
		gauge.WithLabelValues(runID, fmt.Sprintf("p%d", int(val))).Set(float64(res[i]))
	}
}

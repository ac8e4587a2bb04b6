package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saikumarakula/HVM/internal/ir"
)

// Default run settings.
const (
	DefaultNodeCapacity   uint32 = 1 << 22
	DefaultVarsCapacity   uint32 = 1 << 22
	DefaultShareThreshold        = 64
)

// Result is the outcome of a successful run.
type Result struct {
	// Net is the reduced Global Net. The normal form hangs off Root.
	Net *Net

	// Root is the port the caller reads the result from.
	Root ir.Port

	// Interactions is the number of rewrites performed, boot excluded.
	Interactions uint64

	// Elapsed is the wall time spent reducing.
	Elapsed time.Duration

	// Workers is the number of workers that took part.
	Workers int
}

// MIPS returns millions of interactions per second.
func (r *Result) MIPS() float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.Interactions) / secs / 1e6
}

type settings struct {
	nodeCap   uint32
	varsCap   uint32
	workers   int
	window    uint32
	threshold int
}

// RunOption configures Run.
type RunOption func(*settings)

// WithWorkers sets the number of reduction workers.
//
// Default: runtime.GOMAXPROCS(0)
func WithWorkers(n int) RunOption {
	return func(s *settings) {
		s.workers = n
	}
}

// WithCapacity sets the node and variable arena sizes.
//
// Default: DefaultNodeCapacity and DefaultVarsCapacity
func WithCapacity(nodes, vars uint32) RunOption {
	return func(s *settings) {
		s.nodeCap = nodes
		s.varsCap = vars
	}
}

// WithWindowSize sets how many slots each worker reserves per arena at once.
// Use WithWindowSize(1) to make every allocation hit the shared cursor.
func WithWindowSize(n uint32) RunOption {
	return func(s *settings) {
		s.window = n
	}
}

// WithShareThreshold sets the bag size above which a worker offers work to
// idle peers.
func WithShareThreshold(n int) RunOption {
	return func(s *settings) {
		s.threshold = n
	}
}

// scheduler is the state shared by the workers of one run.
type scheduler struct {
	// pending counts redexes that exist anywhere: in a bag, in the shared
	// channel, or being fired. Zero means normal form.
	pending atomic.Int64
	halted  atomic.Bool

	shared    chan ir.Pair
	threshold int
}

// Run reduces the entry definition of book to normal form.
//
// The entry is instantiated against the root wire, then workers reduce until
// no redex is left anywhere. Any RuntimeError aborts the run: all workers stop
// and no Result is returned.
func Run(book *ir.Book, opts ...RunOption) (*Result, error) {
	s := settings{
		nodeCap:   DefaultNodeCapacity,
		varsCap:   DefaultVarsCapacity,
		workers:   runtime.GOMAXPROCS(0),
		window:    DefaultWindowSize,
		threshold: DefaultShareThreshold,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", s.workers)
	}
	if s.window < 1 {
		s.window = 1
	}

	net, err := NewNet(s.nodeCap, s.varsCap)
	if err != nil {
		return nil, err
	}

	sched := &scheduler{
		shared:    make(chan ir.Pair, s.workers*s.threshold),
		threshold: s.threshold,
	}
	workers := make([]*Worker, s.workers)
	for i := range workers {
		w := NewWorker(i, s.workers)
		w.windowSize = s.window
		w.sched = sched
		workers[i] = w
	}

	slog.Debug("run starting",
		"defs", len(book.Defs),
		"workers", s.workers,
		"node_capacity", s.nodeCap,
		"vars_capacity", s.varsCap,
	)

	if err := workers[0].Boot(net, book); err != nil {
		return nil, fail(err)
	}

	start := time.Now()
	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			return w.work(net, book)
		})
	}
	err = g.Wait()
	elapsed := time.Since(start)
	if err != nil {
		return nil, fail(err)
	}

	var shared uint64
	for _, w := range workers {
		shared += w.shared
	}
	res := &Result{
		Net:          net,
		Root:         ir.NewPort(ir.VAR, ir.RootVar),
		Interactions: net.Interactions(),
		Elapsed:      elapsed,
		Workers:      s.workers,
	}
	emitRunMetrics(res, s.workers, shared, start)

	slog.Debug("run finished",
		"interactions", res.Interactions,
		"elapsed", elapsed,
		"nodes_used", net.NodesUsed(),
		"vars_used", net.VarsUsed(),
		"shared", shared,
	)
	return res, nil
}

func fail(err error) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		slog.Error("run aborted",
			"code", re.Code,
			"worker", re.Worker,
			"a", re.A.String(),
			"b", re.B.String(),
			"error", re.Message,
		)
		emitRunFailure(re.Code)
	}
	return err
}

// work is a worker's main loop under a scheduler.
func (w *Worker) work(net *Net, book *ir.Book) error {
	s := w.sched
	defer w.flush(net)

	for {
		if s.halted.Load() {
			return nil
		}

		redex, ok := w.rbag.Pop()
		if !ok && w.tids > 1 {
			redex, ok = w.steal()
		}
		if !ok {
			if s.pending.Load() == 0 {
				return nil
			}
			runtime.Gosched()
			continue
		}

		if err := w.interact(net, book, redex); err != nil {
			s.halted.Store(true)
			return err
		}
		s.pending.Add(-1)

		if w.tids > 1 && w.rbag.Len() > s.threshold {
			w.share()
		}
	}
}

func (w *Worker) steal() (ir.Pair, bool) {
	select {
	case redex := <-w.sched.shared:
		return redex, true
	default:
		return 0, false
	}
}

// share offers one expanding redex to idle peers. The channel hand-off orders
// the node writes behind the redex before the receiver reads them.
func (w *Worker) share() {
	s := w.sched
	if len(s.shared) == cap(s.shared) {
		return
	}
	redex, ok := w.rbag.popLow()
	if !ok {
		return
	}
	select {
	case s.shared <- redex:
		w.shared++
	default:
		w.rbag.Push(redex)
	}
}

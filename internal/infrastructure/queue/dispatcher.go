package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/learncraft/learncraft-api/internal/api/metrics"
	"github.com/learncraft/learncraft-api/internal/core/domain"
	"github.com/learncraft/learncraft-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

// ErrStopped is returned by Checkout once the dispatcher has shut down. It
// carries the upstream kind so the API answers 502 rather than 500.
var ErrStopped = fmt.Errorf("%w: checkout dispatcher stopped", domain.ErrUpstream)

type checkoutReply struct {
	res *ports.CheckoutResult
	err error
}

type checkoutJob struct {
	ctx   context.Context
	in    ports.CheckoutInput
	reply chan checkoutReply
}

// Dispatcher routes checkouts to a fixed set of workers using consistent
// hashing on (class id, email), so two checkouts for the same pair never run
// concurrently inside this process.
type Dispatcher struct {
	workers []chan checkoutJob
	service ports.CheckoutService
	log     zerolog.Logger
	stopped chan struct{}
}

var _ ports.CheckoutService = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// with a queue of queueSize pending checkouts. Non-positive values fall back
// to defaults.
func NewDispatcher(numWorkers, queueSize int, service ports.CheckoutService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan checkoutJob, numWorkers),
		service: service,
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan checkoutJob, queueSize)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Checkout enqueues a checkout on the worker owning its key and waits for the
// result. It blocks while that worker's queue is full.
func (d *Dispatcher) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	select {
	case <-d.stopped:
		return nil, ErrStopped
	default:
	}

	idx := d.shardIndex(shardKey(in))
	job := checkoutJob{ctx: ctx, in: in, reply: make(chan checkoutReply, 1)}

	select {
	case d.workers[idx] <- job:
		d.recordDepth(idx)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.stopped:
		return nil, ErrStopped
	}

	select {
	case r := <-job.reply:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.stopped:
		return nil, ErrStopped
	}
}

func shardKey(in ports.CheckoutInput) string {
	return in.ClassID() + ":" + strings.ToLower(strings.TrimSpace(in.Email))
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) recordDepth(idx int) {
	metrics.CheckoutQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan checkoutJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.recordDepth(id)
			d.process(id, job)
		}
	}
}

// process skips jobs whose caller already gave up. A started checkout runs
// to completion even if the caller disconnects midway.
func (d *Dispatcher) process(id int, job checkoutJob) {
	if err := job.ctx.Err(); err != nil {
		job.reply <- checkoutReply{err: err}
		return
	}

	start := time.Now()
	res, err := d.service.Checkout(context.WithoutCancel(job.ctx), job.in)
	outcome := outcomeLabel(res, err)
	metrics.CheckoutsTotal.WithLabelValues(outcome).Inc()
	metrics.CheckoutDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		d.log.Debug().Err(err).
			Str("class_id", job.in.ClassID()).
			Int("worker_id", id).
			Str("outcome", outcome).
			Msg("checkout did not complete")
	}
	job.reply <- checkoutReply{res: res, err: err}
}

func outcomeLabel(res *ports.CheckoutResult, err error) string {
	var ce *ports.CheckoutError
	switch {
	case err == nil && res != nil:
		return res.Outcome
	case errors.As(err, &ce) && ce.Result != nil:
		return ce.Result.Outcome
	default:
		return "rejected"
	}
}

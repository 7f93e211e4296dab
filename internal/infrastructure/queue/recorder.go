package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nimbushr/expense-system/internal/api/metrics"
	"github.com/nimbushr/expense-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists audit events asynchronously on a fixed set of workers.
// Events are sharded by actor id, so the audit trail for any single user is
// written in the order the actions happened.
type Recorder struct {
	workers []chan ports.AuditEvent
	store   ports.AuditStore
	log     zerolog.Logger
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, store ports.AuditStore, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan ports.AuditEvent, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit event on the worker owning the actor's shard.
// The call is non-blocking up to channelBuffer capacity.
func (r *Recorder) Record(event ports.AuditEvent) {
	i := r.shardIndex(event.ActorID)
	r.workers[i] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(r.workers[i])))
}

// shardIndex maps an actor id deterministically to a worker index.
func (r *Recorder) shardIndex(actorID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(actorID, 10)))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := r.store.Append(ctx, event); err != nil {
				r.log.Error().Err(err).
					Int64("actor_id", event.ActorID).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("audit append failed")
				continue
			}
			metrics.AuditEventsTotal.WithLabelValues(string(event.Action)).Inc()
		}
	}
}

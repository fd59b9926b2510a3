package publisher

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultQueueSize      = 64
	defaultMaxElapsedTime = 5 * time.Minute
	defaultWriteTimeout   = 15 * time.Second
)

// job is one unit of work for the background worker
type job struct {
	id        string
	clearAll  bool
	cellRange string
	value     string
}

// service implements the Service interface
type service struct {
	config *Config
	jobs   chan job

	// lifecycle context cancelled by Stop; abandons in-flight retries
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

// NewService creates a new publisher service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Writer == nil {
		return nil, ErrNilWriter
	}

	if cfg.CellMap == nil {
		return nil, ErrNilCellMap
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUID
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = defaultMaxElapsedTime
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &service{
		config: cfg,
		jobs:   make(chan job, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}, nil
}

// Start launches the background worker
func (s *service) Start() {
	go s.run()
}

// Stop shuts the worker down. Pending jobs and in-flight retries are
// abandoned; the durable board state remains authoritative.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
	})
	<-s.done
}

// PublishCell queues an update of one board cell. A key with no
// configured cell is logged and skipped; a full queue is an error the
// caller may log but must not treat as a board failure.
func (s *service) PublishCell(ctx context.Context, input *PublishCellInput) error {
	cellRange, ok := s.config.CellMap.Resolve(input.Room, input.Slot)
	if !ok {
		log.Printf("publisher: no cell mapped for %s/%s, skipping", input.Room, input.Slot)
		return nil
	}

	return s.enqueue(job{
		id:        s.config.UUIDGenerator.NewUUID(),
		cellRange: cellRange,
		value:     input.SessionName,
	})
}

// ClearAll queues a full clear of the published view
func (s *service) ClearAll(ctx context.Context) error {
	return s.enqueue(job{
		id:       s.config.UUIDGenerator.NewUUID(),
		clearAll: true,
	})
}

func (s *service) enqueue(j job) error {
	select {
	case <-s.ctx.Done():
		return ErrStopped
	default:
	}

	select {
	case s.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// run processes jobs one at a time so cell writes are never
// interleaved on the external surface
func (s *service) run() {
	defer close(s.done)

	for {
		select {
		case <-s.ctx.Done():
			return
		case j := <-s.jobs:
			s.process(j)
		}
	}
}

// process retries one job with exponential backoff until it succeeds,
// permanently fails, or the service is stopped
func (s *service) process(j job) {
	operation := func() error {
		ctx, cancel := context.WithTimeout(s.ctx, s.config.WriteTimeout)
		defer cancel()

		if j.clearAll {
			return s.config.Writer.ClearAll(ctx)
		}
		return s.config.Writer.WriteCell(ctx, j.cellRange, j.value)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.config.MaxElapsedTime

	err := backoff.Retry(operation, backoff.WithContext(policy, s.ctx))
	if err != nil {
		if j.clearAll {
			log.Printf("publisher: job %s (clear all) failed permanently: %v", j.id, err)
		} else {
			log.Printf("publisher: job %s (cell %s) failed permanently: %v", j.id, j.cellRange, err)
		}
	}
}

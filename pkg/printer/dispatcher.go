package printer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"
	"github.com/sangkips/repairpos/pkg/apperror"
)

var log = logging.MustGetLogger("printer")

// ErrUnknownPrinter is returned for a printer name that was never registered.
var ErrUnknownPrinter = errors.New("printer: unknown printer")

// JobType classifies what a print job contains.
type JobType string

const (
	JobReceipt JobType = "receipt"
	JobReport  JobType = "report"
	JobTest    JobType = "test"
)

// JobStatus is the lifecycle state of a print job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobPrinting  JobStatus = "printing"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// DefaultMaxAttempts bounds how often a job is sent before it is dropped.
const DefaultMaxAttempts = 3

// Job is one encoded command stream waiting for a printer.
type Job struct {
	ID         string    `json:"id"`
	Printer    string    `json:"printer"`
	Type       JobType   `json:"type"`
	Payload    []byte    `json:"-"`
	Size       int       `json:"size"`
	Status     JobStatus `json:"status"`
	Attempts   int       `json:"attempts"`
	Timeouts   int       `json:"timeouts"`
	LastError  string    `json:"last_error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Stats summarizes the outcomes of one printer queue.
type Stats struct {
	Queued     int  `json:"queued"`
	Processing bool `json:"processing"`
	Printed    int  `json:"printed"`
	Dropped    int  `json:"dropped"`
	Failures   int  `json:"failures"`
	Timeouts   int  `json:"timeouts"`
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	SendTimeout time.Duration
	MaxAttempts int
	HistorySize int
	// AutoDrain starts a drain goroutine on every Enqueue.
	AutoDrain bool
	// OnResult is called once per job when it completes or is dropped.
	OnResult func(job Job, err error)
}

type printQueue struct {
	name       string
	transport  Printer
	jobs       []*Job
	stats      Stats
	processing atomic.Bool
}

// Dispatcher keeps one ordered queue per printer. Queues for different
// printers drain independently; each queue has at most one drain running.
type Dispatcher struct {
	mu      sync.Mutex
	cfg     DispatcherConfig
	queues  map[string]*printQueue
	history []Job
}

// NewDispatcher creates a dispatcher with no printers registered.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	return &Dispatcher{
		cfg:    cfg,
		queues: make(map[string]*printQueue),
	}
}

// Register adds or replaces the transport for a named printer.
func (d *Dispatcher) Register(name string, transport Printer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if q, ok := d.queues[name]; ok {
		q.transport = transport
		return
	}
	d.queues[name] = &printQueue{name: name, transport: transport}
}

// Printers returns the registered printer names in sorted order.
func (d *Dispatcher) Printers() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.queues))
	for name := range d.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transport returns the transport registered under name.
func (d *Dispatcher) Transport(name string) (Printer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrinter, name)
	}
	return q.transport, nil
}

// Enqueue appends a pending job to the back of the printer's queue.
func (d *Dispatcher) Enqueue(printerName string, jobType JobType, payload []byte) (Job, error) {
	d.mu.Lock()
	q, ok := d.queues[printerName]
	if !ok {
		d.mu.Unlock()
		return Job{}, fmt.Errorf("%w: %s", ErrUnknownPrinter, printerName)
	}

	job := &Job{
		ID:         uuid.New().String(),
		Printer:    printerName,
		Type:       jobType,
		Payload:    payload,
		Size:       len(payload),
		Status:     JobPending,
		EnqueuedAt: time.Now(),
	}
	q.jobs = append(q.jobs, job)
	snapshot := *job
	d.mu.Unlock()

	log.Debugf("queued %s job %s for printer %s (%d bytes)", jobType, job.ID, printerName, len(payload))

	if d.cfg.AutoDrain {
		go func() {
			if err := d.ProcessQueue(context.Background(), printerName); err != nil {
				log.Warningf("drain of printer %s stopped: %v", printerName, err)
			}
		}()
	}
	return snapshot, nil
}

// ProcessQueue drains the printer's queue in FIFO order. If a drain for this
// printer is already running the call returns immediately.
func (d *Dispatcher) ProcessQueue(ctx context.Context, printerName string) error {
	d.mu.Lock()
	q, ok := d.queues[printerName]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrinter, printerName)
	}

	for {
		if !q.processing.CompareAndSwap(false, true) {
			return nil
		}
		err := d.drain(ctx, q)
		q.processing.Store(false)
		if err != nil {
			return err
		}

		// A job enqueued after the last pop but before the guard was released
		// saw a running drain and did not start its own.
		d.mu.Lock()
		remaining := len(q.jobs)
		d.mu.Unlock()
		if remaining == 0 {
			return nil
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, q *printQueue) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.Lock()
		if len(q.jobs) == 0 {
			d.mu.Unlock()
			return nil
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		job.Status = JobPrinting
		job.Attempts++
		transport := q.transport
		d.mu.Unlock()

		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
		sendErr := transport.Print(sendCtx, job.Payload)
		cancel()

		d.settle(q, job, sendErr)
	}
}

func (d *Dispatcher) settle(q *printQueue, job *Job, sendErr error) {
	var result error

	d.mu.Lock()
	if sendErr == nil {
		job.Status = JobCompleted
		job.FinishedAt = time.Now()
		q.stats.Printed++
		d.record(*job)
	} else {
		terr := apperror.NewTransportError(q.name, job.Attempts, sendErr)
		job.LastError = terr.Error()
		if terr.Timeout {
			job.Timeouts++
			q.stats.Timeouts++
		} else {
			q.stats.Failures++
		}

		if errors.Is(sendErr, ErrNotConfigured) || job.Attempts >= d.cfg.MaxAttempts {
			job.Status = JobFailed
			job.FinishedAt = time.Now()
			q.stats.Dropped++
			d.record(*job)
			result = terr
		} else {
			job.Status = JobPending
			q.jobs = append(q.jobs, job)
		}
	}
	snapshot := *job
	d.mu.Unlock()

	switch snapshot.Status {
	case JobCompleted:
		log.Infof("printed %s job %s on %s", snapshot.Type, snapshot.ID, q.name)
	case JobPending:
		log.Warningf("print job %s attempt %d failed, requeued: %s", snapshot.ID, snapshot.Attempts, snapshot.LastError)
		return
	case JobFailed:
		log.Errorf("print job %s dropped after %d attempts: %s", snapshot.ID, snapshot.Attempts, snapshot.LastError)
	}

	if d.cfg.OnResult != nil {
		d.cfg.OnResult(snapshot, result)
	}
}

// record appends a finished job to the bounded history. Callers hold d.mu.
func (d *Dispatcher) record(job Job) {
	job.Payload = nil
	d.history = append(d.history, job)
	if over := len(d.history) - d.cfg.HistorySize; over > 0 {
		d.history = d.history[over:]
	}
}

// Pending returns snapshots of the jobs still queued for a printer.
func (d *Dispatcher) Pending(printerName string) []Job {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[printerName]
	if !ok {
		return nil
	}
	jobs := make([]Job, 0, len(q.jobs))
	for _, j := range q.jobs {
		jobs = append(jobs, *j)
	}
	return jobs
}

// History returns finished jobs, oldest first.
func (d *Dispatcher) History() []Job {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Job, len(d.history))
	copy(out, d.history)
	return out
}

// Stats returns the counters of a printer queue.
func (d *Dispatcher) Stats(printerName string) (Stats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[printerName]
	if !ok {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnknownPrinter, printerName)
	}
	s := q.stats
	s.Queued = len(q.jobs)
	s.Processing = q.processing.Load()
	return s, nil
}

// Close releases every registered transport.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	for _, q := range d.queues {
		if err := q.transport.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

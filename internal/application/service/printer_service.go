package service

import (
	"context"
	"time"

	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/sangkips/repairpos/pkg/printer"
)

// PrinterOptions configures the receipt printer queue.
type PrinterOptions struct {
	Name        string
	Type        string
	SendTimeout time.Duration
	MaxAttempts int
	AutoDrain   bool
}

// PrinterService encodes documents and hands them to the print dispatcher.
type PrinterService struct {
	dispatcher  *printer.Dispatcher
	printerName string
	printerType string
	autoDrain   bool
	store       StoreInfoProvider
}

// NewPrinterService registers transport under opts.Name on a new dispatcher.
func NewPrinterService(transport printer.Printer, opts PrinterOptions, store StoreInfoProvider) *PrinterService {
	if opts.Name == "" {
		opts.Name = "default"
	}
	s := &PrinterService{
		printerName: opts.Name,
		printerType: opts.Type,
		autoDrain:   opts.AutoDrain,
		store:       store,
	}
	s.dispatcher = printer.NewDispatcher(printer.DispatcherConfig{
		SendTimeout: opts.SendTimeout,
		MaxAttempts: opts.MaxAttempts,
		AutoDrain:   opts.AutoDrain,
		OnResult:    s.handleResult,
	})
	s.dispatcher.Register(opts.Name, transport)
	return s
}

func (s *PrinterService) handleResult(job printer.Job, err error) {
	if err != nil {
		log.Errorf("%s job %s for printer %s failed after %d attempts (%d timed out): %v",
			job.Type, job.ID, job.Printer, job.Attempts, job.Timeouts, err)
		return
	}
	log.Debugf("%s job %s printed after %d attempts", job.Type, job.ID, job.Attempts)
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Configured bool          `json:"configured"`
	Connected  bool          `json:"connected"`
	Queue      printer.Stats `json:"queue"`
}

// GetStatus returns printer connection and queue status.
func (s *PrinterService) GetStatus() (*PrinterStatus, error) {
	transport, err := s.dispatcher.Transport(s.printerName)
	if err != nil {
		return nil, err
	}
	stats, err := s.dispatcher.Stats(s.printerName)
	if err != nil {
		return nil, err
	}
	return &PrinterStatus{
		Name:       s.printerName,
		Type:       s.printerType,
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  transport.IsConnected(),
		Queue:      stats,
	}, nil
}

// PrintJobs lists queued and finished print jobs.
type PrintJobs struct {
	Pending []printer.Job `json:"pending"`
	History []printer.Job `json:"history"`
}

// Jobs returns the queued jobs and the recent history.
func (s *PrinterService) Jobs() *PrintJobs {
	return &PrintJobs{
		Pending: s.dispatcher.Pending(s.printerName),
		History: s.dispatcher.History(),
	}
}

// PrintReceipt encodes a receipt and queues it.
func (s *PrinterService) PrintReceipt(ctx context.Context, receipt *entity.Receipt) (printer.Job, error) {
	return s.enqueue(printer.JobReceipt, EncodeReceipt(receipt))
}

// PrintReport queues an already encoded report.
func (s *PrinterService) PrintReport(ctx context.Context, data []byte) error {
	_, err := s.enqueue(printer.JobReport, data)
	return err
}

// TestPrint queues a test page for the location's paper width.
func (s *PrinterService) TestPrint(ctx context.Context, locationID string) (printer.Job, error) {
	var store *entity.StoreSettings
	if s.store != nil {
		info, err := s.store.StoreInfo(ctx, locationID)
		if err != nil {
			return printer.Job{}, err
		}
		store = info
	}
	return s.enqueue(printer.JobTest, EncodeTestPage(store))
}

func (s *PrinterService) enqueue(jobType printer.JobType, data []byte) (printer.Job, error) {
	job, err := s.dispatcher.Enqueue(s.printerName, jobType, data)
	if err != nil {
		return printer.Job{}, apperror.NewAppError(503, err.Error())
	}
	return job, nil
}

// Drain sends every queued job now.
func (s *PrinterService) Drain(ctx context.Context) error {
	return s.dispatcher.ProcessQueue(ctx, s.printerName)
}

// Run drains the queue every interval until ctx is done. It is only needed
// when auto drain is off.
func (s *PrinterService) Run(ctx context.Context, interval time.Duration) {
	if s.autoDrain {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Drain(ctx); err != nil && ctx.Err() == nil {
				log.Warningf("print queue drain stopped: %v", err)
			}
		}
	}
}

// Close releases the printer transport.
func (s *PrinterService) Close() error {
	return s.dispatcher.Close()
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/entity"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/internal/domain/repository"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ReportPrinter queues an encoded report for printing.
type ReportPrinter interface {
	PrintReport(ctx context.Context, data []byte) error
}

// CashDrawerService manages register cash drawer sessions
type CashDrawerService struct {
	drawerRepo repository.CashDrawerRepository
	printer    ReportPrinter
	store      StoreInfoProvider
	events     EventPublisher
}

// NewCashDrawerService creates a new cash drawer service. printer, store and events may be nil.
func NewCashDrawerService(
	drawerRepo repository.CashDrawerRepository,
	printer ReportPrinter,
	store StoreInfoProvider,
	events EventPublisher,
) *CashDrawerService {
	return &CashDrawerService{
		drawerRepo: drawerRepo,
		printer:    printer,
		store:      store,
		events:     events,
	}
}

// OpenDrawerInput represents the input for opening a drawer session
type OpenDrawerInput struct {
	RegisterID    string
	EmployeeID    uuid.UUID
	OpeningAmount decimal.Decimal
}

// Open starts a session on a register. A register has at most one open session.
func (s *CashDrawerService) Open(ctx context.Context, input *OpenDrawerInput) (*entity.CashDrawerSession, error) {
	var errs []apperror.FieldError
	if input.RegisterID == "" {
		errs = append(errs, apperror.FieldError{Field: "register_id", Message: "Register is required"})
	}
	if input.EmployeeID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "employee_id", Message: "Employee is required"})
	}
	if input.OpeningAmount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "opening_amount", Message: "Opening amount cannot be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existing, err := s.drawerRepo.GetOpenByRegister(ctx, input.RegisterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Register " + input.RegisterID + " already has an open drawer session")
	}

	opening := input.OpeningAmount.Round(2)
	session := &entity.CashDrawerSession{
		RegisterID:     input.RegisterID,
		EmployeeID:     input.EmployeeID,
		OpeningAmount:  opening,
		ExpectedAmount: opening,
		Status:         enum.DrawerStatusOpen,
		OpenedAt:       time.Now().UTC(),
	}
	if err := s.drawerRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Infof("drawer opened on register %s with %s", session.RegisterID, opening.StringFixed(2))
	return session, nil
}

// RecordCash adds delta to the expected amount of a session.
// It reports false once the session is closed.
func (s *CashDrawerService) RecordCash(ctx context.Context, sessionID uuid.UUID, delta decimal.Decimal) (bool, error) {
	return s.drawerRepo.AddExpected(ctx, sessionID, delta)
}

// Current returns the open session of a register
func (s *CashDrawerService) Current(ctx context.Context, registerID string) (*entity.CashDrawerSession, error) {
	session, err := s.drawerRepo.GetOpenByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Open drawer session")
	}
	return session, nil
}

// Close records the counted cash and closes the session, then prints the drawer report.
func (s *CashDrawerService) Close(ctx context.Context, id uuid.UUID, closing decimal.Decimal) (*entity.CashDrawerSession, error) {
	if closing.IsNegative() {
		return nil, apperror.NewFieldError("closing_amount", "Closing amount cannot be negative")
	}

	session, err := s.drawerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Drawer session")
	}

	closed, err := s.drawerRepo.Close(ctx, id, closing.Round(2), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, apperror.NewConflictError("Drawer session is already closed")
	}

	session, err = s.drawerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Drawer session")
	}

	if session.Difference != nil && !session.Difference.IsZero() {
		log.Warningf("drawer on register %s closed %s off", session.RegisterID, session.Difference.StringFixed(2))
	} else {
		log.Infof("drawer on register %s closed balanced", session.RegisterID)
	}

	s.printReport(ctx, session)
	if s.events != nil {
		if err := s.events.Publish(ctx, EventDrawerClosed, session); err != nil {
			log.Warningf("failed to publish %s for register %s: %v", EventDrawerClosed, session.RegisterID, err)
		}
	}
	return session, nil
}

func (s *CashDrawerService) printReport(ctx context.Context, session *entity.CashDrawerSession) {
	if s.printer == nil {
		return
	}
	var store *entity.StoreSettings
	if s.store != nil {
		info, err := s.store.StoreInfo(ctx, "")
		if err == nil {
			store = info
		}
	}
	if err := s.printer.PrintReport(ctx, EncodeDrawerReport(session, store)); err != nil {
		log.Warningf("drawer report for register %s not printed: %v", session.RegisterID, err)
	}
}

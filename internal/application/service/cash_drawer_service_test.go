package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/config"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/sangkips/repairpos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDrawerService() (*CashDrawerService, *fakeReportPrinter, *fakePublisher) {
	reports := &fakeReportPrinter{}
	events := &fakePublisher{}
	settings := NewSettingsService(newFakeSettingsRepo(), config.StoreConfig{Name: "Fix-It Phones"})
	return NewCashDrawerService(newFakeDrawerRepo(), reports, settings, events), reports, events
}

func TestCashDrawerOpenValidation(t *testing.T) {
	svc, _, _ := newTestDrawerService()

	_, err := svc.Open(context.Background(), &OpenDrawerInput{OpeningAmount: dec("-1")})
	require.True(t, apperror.IsValidation(err))
	assert.Len(t, apperror.GetAppError(err).Errors, 3)
}

func TestCashDrawerOneOpenSessionPerRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDrawerService()

	first, err := svc.Open(ctx, &OpenDrawerInput{RegisterID: "reg-1", EmployeeID: uuid.New(), OpeningAmount: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, enum.DrawerStatusOpen, first.Status)
	assert.Equal(t, "50.00", first.ExpectedAmount.StringFixed(2))

	_, err = svc.Open(ctx, &OpenDrawerInput{RegisterID: "reg-1", EmployeeID: uuid.New()})
	assert.True(t, apperror.IsConflict(err))

	_, err = svc.Open(ctx, &OpenDrawerInput{RegisterID: "reg-2", EmployeeID: uuid.New()})
	assert.NoError(t, err)

	_, err = svc.Current(ctx, "reg-3")
	assert.True(t, apperror.IsNotFound(err))

	recorded, err := svc.RecordCash(ctx, uuid.New(), dec("10"))
	require.NoError(t, err)
	assert.False(t, recorded)
}

func TestCashDrawerCloseComputesDifference(t *testing.T) {
	ctx := context.Background()
	svc, reports, events := newTestDrawerService()

	session, err := svc.Open(ctx, &OpenDrawerInput{RegisterID: "reg-1", EmployeeID: uuid.New(), OpeningAmount: dec("50")})
	require.NoError(t, err)
	recorded, err := svc.RecordCash(ctx, session.ID, dec("97.86"))
	require.NoError(t, err)
	require.True(t, recorded)

	_, err = svc.Close(ctx, session.ID, dec("-1"))
	assert.True(t, apperror.IsValidation(err))
	_, err = svc.Close(ctx, uuid.New(), dec("1"))
	assert.True(t, apperror.IsNotFound(err))

	closed, err := svc.Close(ctx, session.ID, dec("142.86"))
	require.NoError(t, err)
	assert.Equal(t, enum.DrawerStatusClosed, closed.Status)
	require.NotNil(t, closed.Difference)
	assert.Equal(t, "-5.00", closed.Difference.StringFixed(2))
	assert.Equal(t, "147.86", closed.ExpectedAmount.StringFixed(2))
	require.NotNil(t, closed.ClosedAt)

	require.Len(t, reports.reports, 1)
	assert.Contains(t, string(reports.reports[0]), "Fix-It Phones")
	assert.Equal(t, []string{EventDrawerClosed}, events.keys())

	_, err = svc.Close(ctx, session.ID, dec("142.86"))
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, reports.reports, 1)

	recorded, err = svc.RecordCash(ctx, session.ID, dec("10"))
	require.NoError(t, err)
	assert.False(t, recorded, "closed session takes no cash")

	_, err = svc.Open(ctx, &OpenDrawerInput{RegisterID: "reg-1", EmployeeID: uuid.New()})
	assert.NoError(t, err, "register can reopen after close")
}

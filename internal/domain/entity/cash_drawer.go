package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/repairpos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashDrawerSession tracks the cash in one register between opening and closing.
type CashDrawerSession struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	RegisterID     string            `gorm:"size:64;not null;index" json:"register_id"`
	EmployeeID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"employee_id"`
	OpeningAmount  decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	ExpectedAmount decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"expected_amount"`
	ClosingAmount  *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"closing_amount,omitempty"`
	Difference     *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"difference,omitempty"`
	Status         enum.DrawerStatus `gorm:"size:20;not null;index" json:"status"`
	// OpenRegister equals RegisterID while open and is NULL once closed.
	// Its unique index allows at most one open session per register.
	OpenRegister *string    `gorm:"size:64;uniqueIndex" json:"-"`
	OpenedAt     time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashDrawerSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashDrawerSession model
func (CashDrawerSession) TableName() string {
	return "cash_drawer_sessions"
}

// IsOpen reports whether the session still accepts cash movements.
func (s *CashDrawerSession) IsOpen() bool {
	return s.Status == enum.DrawerStatusOpen
}

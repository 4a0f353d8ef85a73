package trade

import (
	"time"

	"github.com/digiprime/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RefillEvent is one entry in an order's append-only refill/warranty history.
// It replaces the serialized notes blob the legacy system kept on the order
// row: events are child rows ordered by date, never rewritten.
type RefillEvent struct {
	shared.BaseEntity
	OrderID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Date         time.Time `gorm:"not null"`
	Email        string    `gorm:"type:varchar(200)"`
	Password     string    `gorm:"type:varchar(200)"`
	ReferralCode string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (RefillEvent) TableName() string {
	return "order_refill_events"
}

// NewRefillEvent creates a refill event dated now unless a date is given
func NewRefillEvent(date time.Time, email, password, referralCode string) RefillEvent {
	if date.IsZero() {
		date = time.Now()
	}
	return RefillEvent{
		BaseEntity:   shared.NewBaseEntity(),
		Date:         date,
		Email:        email,
		Password:     password,
		ReferralCode: referralCode,
	}
}

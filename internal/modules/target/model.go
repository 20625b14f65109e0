package target

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target is a daily sales goal, either company-wide (no driver) or for a
// specific driver. At most one target exists per (date, driver) pair;
// re-setting the same pair overwrites the amount.
type Target struct {
	ID        uuid.UUID       `json:"id"`
	Date      time.Time       `json:"target_date"`
	DriverID  *uuid.UUID      `json:"driver_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedBy *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Achievement reports a target side by side with the sales actually recorded
// for its date (and driver, when scoped).
type Achievement struct {
	Target   *Target         `json:"target"`
	Achieved decimal.Decimal `json:"achieved"`
	Percent  decimal.Decimal `json:"percent"`
}

// UpsertTargetRequest is the payload for setting a daily target.
type UpsertTargetRequest struct {
	Date     string          `json:"target_date" validate:"required"`
	DriverID string          `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

package models

import (
	"time"
)

// PaymentValidation statuses
const (
	ValidationStatusPending  = "pending"
	ValidationStatusApproved = "approved"
	ValidationStatusRejected = "rejected"
)

// PaymentValidation is a reviewer decision on a submitted payment proof
type PaymentValidation struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrderID          uint       `gorm:"not null;index" json:"order_id"`
	Order            *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	ProofPath        string     `gorm:"not null" json:"proof_path"`
	AmountPaid       float64    `json:"amount_paid"`
	ClientNotes      string     `gorm:"type:text" json:"client_notes"`
	ValidationStatus string     `gorm:"not null;default:'pending'" json:"validation_status"`
	AdminNotes       string     `gorm:"type:text" json:"admin_notes"`
	ValidatedByID    *uint      `gorm:"index" json:"validated_by_id"` // null when the validator account is deleted
	ValidatedBy      *User      `gorm:"foreignKey:ValidatedByID;constraint:OnDelete:SET NULL" json:"validated_by,omitempty"`
	ValidateAt       *time.Time `json:"validate_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the PaymentValidation model
func (PaymentValidation) TableName() string {
	return "payment_validations"
}

// Reviewed reports whether a validator already decided on this proof.
func (v *PaymentValidation) Reviewed() bool {
	return v.ValidationStatus != ValidationStatusPending
}

// PaymentSetting holds bank transfer instructions shown to customers.
// At most one row is active at any time; the payment setting service
// enforces the invariant transactionally.
type PaymentSetting struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	BankName            string    `gorm:"not null" json:"bank_name"`
	AccountHolder       string    `json:"account_holder"`
	RIBNumber           string    `json:"rib_number"`
	IBAN                string    `json:"iban"`
	SwiftCode           string    `json:"swift_code"`
	PaymentInstructions string    `gorm:"type:text" json:"payment_instructions"`
	IsActive            bool      `gorm:"default:false" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PaymentSetting model
func (PaymentSetting) TableName() string {
	return "payment_settings"
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusPaid       = "paid"
	OrderStatusShipped    = "shipped"
	OrderStatusCanceled   = "canceled"
)

// Order channels
const (
	OrderChannelWhatsapp = "whatsapp"
	OrderChannelForm     = "form"
)

// Order represents a customer request to produce cards from a Pack+Template
type Order struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	UserID           *uint               `gorm:"index" json:"user_id"` // nullable, orders can be placed without an account
	User             *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PackID           uint                `gorm:"not null;index" json:"pack_id"`
	Pack             *Pack               `gorm:"foreignKey:PackID" json:"pack,omitempty"`
	TemplateID       *uint               `gorm:"index" json:"template_id"`
	Template         *Template           `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	ClientName       string              `gorm:"not null" json:"client_name"`
	ClientEmail      string              `json:"client_email"`
	ClientPhone      string              `json:"client_phone"`
	CompanyName      string              `json:"company_name"`
	Orientation      string              `json:"orientation"`
	Color            string              `json:"color"`
	Quantity         int                 `gorm:"not null" json:"quantity"` // application enforces quantity >= 1
	Status           string              `gorm:"not null;default:'pending'" json:"status"`
	Channel          string              `gorm:"not null;default:'form'" json:"channel"`
	LogoPath         string              `json:"logo_path"`
	BriefPath        string              `json:"brief_path"`
	PaymentProofPath string              `json:"payment_proof_path"`
	Validations      []PaymentValidation `gorm:"foreignKey:OrderID" json:"validations,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID uint) bool {
	return o.UserID != nil && *o.UserID == userID
}

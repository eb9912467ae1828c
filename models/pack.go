package models

import (
	"time"

	"gorm.io/gorm"
)

// Pack types
const (
	PackTypeStandard = "standard"
	PackTypePro      = "pro"
	PackTypeCustom   = "custom"
)

// PackOffer types
const (
	OfferTypeDiscount = "discount"
	OfferTypeFreeItem = "free_item"
	OfferTypeBundle   = "bundle"
)

// Pack represents a purchasable card product tier
type Pack struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Slug             string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string         `gorm:"type:text" json:"description"`
	Type             string         `gorm:"not null;default:'standard'" json:"type"` // standard, pro, custom
	Price            float64        `gorm:"not null" json:"price"`
	DeliveryTimeDays int            `json:"delivery_time_days"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	Highlight        bool           `gorm:"default:false" json:"highlight"`
	ImagePath        string         `json:"image_path"`
	Features         StringList     `json:"features"`
	Templates        []Template     `gorm:"foreignKey:PackID" json:"templates,omitempty"`
	Offers           []PackOffer    `gorm:"foreignKey:PackID" json:"offers,omitempty"`
	Orders           []Order        `gorm:"foreignKey:PackID" json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Pack model
func (Pack) TableName() string {
	return "packs"
}

// Template is a design variant belonging to a Pack
type Template struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PackID           uint           `gorm:"not null;index" json:"pack_id"`
	Pack             *Pack          `gorm:"foreignKey:PackID" json:"pack,omitempty"`
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	RectoImagePath   string         `json:"recto_image_path"`
	VersoImagePath   string         `json:"verso_image_path"`
	PreviewImagePath string         `json:"preview_image_path"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	Tags             StringList     `json:"tags"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Template model
func (Template) TableName() string {
	return "templates"
}

// PackOffer is a time-bounded promotion on a Pack
type PackOffer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PackID      uint      `gorm:"not null;index" json:"pack_id"`
	Pack        *Pack     `gorm:"foreignKey:PackID" json:"pack,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"not null;default:'discount'" json:"type"` // discount, free_item, bundle
	Value       float64   `json:"value"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PackOffer model
func (PackOffer) TableName() string {
	return "pack_offers"
}

// Current reports whether the offer window covers the given instant.
func (o *PackOffer) Current(now time.Time) bool {
	return o.IsActive && !now.Before(o.StartsAt) && !now.After(o.EndsAt)
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Testimonial types
const (
	TestimonialTypeText  = "text"
	TestimonialTypeImage = "image"
	TestimonialTypeVideo = "video"
)

// TestimonialCategory is a simple taxonomy for customer reviews
type TestimonialCategory struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	Slug         string        `gorm:"uniqueIndex;not null" json:"slug"`
	Icon         string        `json:"icon"`
	Color        string        `json:"color"`
	SortOrder    int           `gorm:"default:0" json:"sort_order"`
	Testimonials []Testimonial `gorm:"foreignKey:CategoryID" json:"testimonials,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the TestimonialCategory model
func (TestimonialCategory) TableName() string {
	return "testimonial_categories"
}

// Testimonial is a customer review, optionally with media
type Testimonial struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	CategoryID    *uint                `gorm:"index" json:"category_id"`
	Category      *TestimonialCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorName    string               `gorm:"not null" json:"author_name"`
	AuthorTitle   string               `json:"author_title"`
	Content       string               `gorm:"type:text" json:"content"`
	Rating        int                  `gorm:"not null;default:5" json:"rating"` // 1-5
	Type          string               `gorm:"not null;default:'text'" json:"type"`
	ImagePath     string               `json:"image_path"`
	VideoPath     string               `json:"video_path"`
	AvatarPath    string               `json:"avatar_path"`
	IsPublished   bool                 `gorm:"default:false" json:"is_published"`
	IsFeatured    bool                 `gorm:"default:false" json:"is_featured"`
	Metadata      datatypes.JSONMap    `json:"metadata"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Testimonial model
func (Testimonial) TableName() string {
	return "testimonials"
}

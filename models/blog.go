package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogArticle statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusScheduled = "scheduled"
)

// BlogCategory groups articles; the name and description are localized.
type BlogCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        LocalizedText  `json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description LocalizedText  `json:"description"`
	Color       string         `json:"color"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	Articles    []BlogArticle  `gorm:"foreignKey:CategoryID" json:"articles,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the BlogCategory model
func (BlogCategory) TableName() string {
	return "blog_categories"
}

// BlogArticle is a blog post whose textual fields are stored per locale.
type BlogArticle struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CategoryID      *uint          `gorm:"index" json:"category_id"`
	Category        *BlogCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorID        *uint          `gorm:"index" json:"author_id"`
	Author          *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title           LocalizedText  `json:"title"`
	Slug            LocalizedText  `json:"slug"`
	Excerpt         LocalizedText  `json:"excerpt"`
	Content         LocalizedText  `json:"content"`
	MetaTitle       LocalizedText  `json:"meta_title"`
	MetaDescription LocalizedText  `json:"meta_description"`
	CoverImagePath  string         `json:"cover_image_path"`
	Status          string         `gorm:"not null;default:'draft';index" json:"status"`
	ScheduledAt     *time.Time     `json:"scheduled_at"`
	PublishedAt     *time.Time     `gorm:"index" json:"published_at"`
	Views           int            `gorm:"default:0" json:"views"`
	ReadingTime     int            `gorm:"default:0" json:"reading_time"` // minutes
	Tags            StringList     `json:"tags"`
	SortOrder       int            `gorm:"default:0" json:"sort_order"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the BlogArticle model
func (BlogArticle) TableName() string {
	return "blog_articles"
}

// Published reports whether the article is publicly visible at the given instant.
func (a *BlogArticle) Published(now time.Time) bool {
	if a.Status != ArticleStatusPublished {
		return false
	}
	return a.PublishedAt == nil || !a.PublishedAt.After(now)
}

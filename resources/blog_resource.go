package resources

import (
	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/models"
)

// BlogCategoryResource transforms a BlogCategory, resolving localized fields
// for the requested locale.
func BlogCategoryResource(category *models.BlogCategory, locale string) gin.H {
	return gin.H{
		"id":          category.ID,
		"name":        category.Name.Resolve(locale),
		"slug":        category.Slug,
		"description": category.Description.Resolve(locale),
		"color":       category.Color,
		"sort_order":  category.SortOrder,
	}
}

// BlogCategoryCollection transforms a list of categories.
func BlogCategoryCollection(categories []models.BlogCategory, locale string) []gin.H {
	out := make([]gin.H, 0, len(categories))
	for i := range categories {
		out = append(out, BlogCategoryResource(&categories[i], locale))
	}
	return out
}

// BlogArticleResource transforms a BlogArticle for list and search endpoints.
// The full content is deliberately absent; only the show endpoint carries it.
func BlogArticleResource(article *models.BlogArticle, locale string) gin.H {
	out := gin.H{
		"id":                 article.ID,
		"title":              article.Title.Resolve(locale),
		"slug":               article.Slug.Resolve(locale),
		"excerpt":            article.Excerpt.Resolve(locale),
		"meta_title":         article.MetaTitle.Resolve(locale),
		"meta_description":   article.MetaDescription.Resolve(locale),
		"cover_image_path":   article.CoverImagePath,
		"cover_image_url":    fileURL(article.CoverImagePath),
		"status":             article.Status,
		"published_at":       article.PublishedAt,
		"views":              article.Views,
		"reading_time":       article.ReadingTime,
		"reading_time_label": readingTimeLabel(article.ReadingTime),
		"tags":               article.Tags,
		"sort_order":         article.SortOrder,
		"created_at":         article.CreatedAt,
	}

	if article.PublishedAt != nil {
		out["published_human"] = humanizeSince(*article.PublishedAt)
	}

	if article.Category != nil {
		out["category"] = BlogCategoryResource(article.Category, locale)
	}

	if article.Author != nil {
		out["author"] = gin.H{
			"id":   article.Author.ID,
			"name": article.Author.Name,
		}
	}

	return out
}

// BlogArticleDetailResource transforms a BlogArticle for the show endpoint,
// adding the full content and the raw per-locale translations the client
// needs for its own fallback rendering.
func BlogArticleDetailResource(article *models.BlogArticle, locale string) gin.H {
	out := BlogArticleResource(article, locale)
	out["content"] = article.Content.Resolve(locale)
	out["translations"] = gin.H{
		"title":            article.Title,
		"slug":             article.Slug,
		"excerpt":          article.Excerpt,
		"content":          article.Content,
		"meta_title":       article.MetaTitle,
		"meta_description": article.MetaDescription,
	}
	return out
}

// BlogArticleCollection transforms a list of articles for list endpoints.
func BlogArticleCollection(articles []models.BlogArticle, locale string) []gin.H {
	out := make([]gin.H, 0, len(articles))
	for i := range articles {
		out = append(out, BlogArticleResource(&articles[i], locale))
	}
	return out
}

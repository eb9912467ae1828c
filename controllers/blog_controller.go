package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/resources"
	"github.com/kartlink/kartlink-api/utils"
)

// requestLocale resolves the locale for a request, falling back to the
// configured default when the query value is missing or unsupported.
func requestLocale(c *gin.Context) string {
	locale := c.Query("locale")
	for _, lc := range models.SupportedLocales {
		if lc == locale {
			return locale
		}
	}
	return config.GetConfig().DefaultLocale
}

// publishedArticles scopes a query to articles visible to the public.
func publishedArticles(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.ArticleStatusPublished).
		Where("published_at IS NULL OR published_at <= ?", time.Now())
}

// ListBlogCategories handles GET /api/v1/blog/categories
func ListBlogCategories(c *gin.Context) {
	locale := requestLocale(c)

	var categories []models.BlogCategory
	err := config.GetDB().Order("sort_order asc, id asc").Find(&categories).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog categories", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.BlogCategoryCollection(categories, locale),
	})
}

// GetBlogCategoryBySlug handles GET /api/v1/blog/categories/:slug
func GetBlogCategoryBySlug(c *gin.Context) {
	locale := requestLocale(c)

	var category models.BlogCategory
	err := config.GetDB().Where("slug = ?", c.Param("slug")).First(&category).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Blog category not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog category", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.BlogCategoryResource(&category, locale),
	})
}

// ListBlogArticles handles GET /api/v1/blog/articles - published articles with
// category, tag and full-text filters. Search and ordering operate on the
// requested locale.
func ListBlogArticles(c *gin.Context) {
	locale := requestLocale(c)
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	query := publishedArticles(db.Model(&models.BlogArticle{}))

	if slug := c.Query("category"); slug != "" {
		var category models.BlogCategory
		if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
			if utils.IsNotFound(err) {
				utils.RenderError(c, &utils.NotFoundError{Message: "Blog category not found"})
				return
			}
			utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog category", Cause: err})
			return
		}
		query = query.Where("category_id = ?", category.ID)
	}

	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", `%"`+tag+`"%`)
	}

	if search := c.Query("search"); search != "" {
		query = query.Scopes(models.LocaleContainsAny([]string{"title", "excerpt"}, locale, search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count articles", Cause: err})
		return
	}

	switch c.Query("sort") {
	case "oldest":
		query = query.Order("published_at asc")
	case "popular":
		query = query.Order("views desc")
	case "title":
		query = query.Scopes(models.OrderByLocale("title", locale, false))
	default:
		query = query.Order("published_at desc")
	}

	var articles []models.BlogArticle
	err := query.Preload("Category").Preload("Author").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&articles).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load articles", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.BlogArticleCollection(articles, locale),
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetBlogArticleBySlug handles GET /api/v1/blog/articles/:slug - the slug may
// match any locale variant. Each hit bumps the view counter.
func GetBlogArticleBySlug(c *gin.Context) {
	locale := requestLocale(c)
	db := config.GetDB()

	var article models.BlogArticle
	err := publishedArticles(db.Model(&models.BlogArticle{})).
		Scopes(models.LocaleEqualsAny("slug", c.Param("slug"))).
		Preload("Category").Preload("Author").
		First(&article).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Article not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load article", Cause: err})
		return
	}

	if err := db.Model(&article).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to update article views", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.BlogArticleDetailResource(&article, locale),
	})
}

// TrendingBlogArticles handles GET /api/v1/blog/articles/trending - the most
// viewed published articles
func TrendingBlogArticles(c *gin.Context) {
	locale := requestLocale(c)

	limit := 5
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 20 {
		limit = v
	}

	var articles []models.BlogArticle
	err := publishedArticles(config.GetDB().Model(&models.BlogArticle{})).
		Preload("Category").
		Order("views desc").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load articles", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    resources.BlogArticleCollection(articles, locale),
	})
}

// BlogTags handles GET /api/v1/blog/tags - the distinct tags across published
// articles with their usage counts
func BlogTags(c *gin.Context) {
	var articles []models.BlogArticle
	err := publishedArticles(config.GetDB().Model(&models.BlogArticle{})).
		Select("tags").
		Find(&articles).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load tags", Cause: err})
		return
	}

	// Tags live inside a JSON column, so counting happens here rather than in SQL
	counts := map[string]int{}
	var order []string
	for _, article := range articles {
		for _, tag := range article.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tags := make([]gin.H, 0, len(order))
	for _, tag := range order {
		tags = append(tags, gin.H{"name": tag, "count": counts[tag]})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    tags,
	})
}

// BlogStats handles GET /api/v1/blog/stats
func BlogStats(c *gin.Context) {
	db := config.GetDB()

	var totalArticles int64
	if err := publishedArticles(db.Model(&models.BlogArticle{})).Count(&totalArticles).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog stats", Cause: err})
		return
	}

	var totalCategories int64
	if err := db.Model(&models.BlogCategory{}).Count(&totalCategories).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog stats", Cause: err})
		return
	}

	var totalViews int64
	err := publishedArticles(db.Model(&models.BlogArticle{})).
		Select("coalesce(sum(views), 0)").
		Scan(&totalViews).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load blog stats", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"total_articles":   totalArticles,
			"total_categories": totalCategories,
			"total_views":      totalViews,
		},
	})
}

// BlogArchive handles GET /api/v1/blog/archive and its /:year and
// /:year/:month variants - published articles grouped by publication month
func BlogArchive(c *gin.Context) {
	locale := requestLocale(c)
	db := config.GetDB()

	query := publishedArticles(db.Model(&models.BlogArticle{})).Where("published_at IS NOT NULL")

	if yearParam := c.Param("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			utils.RenderError(c, &utils.ValidationError{Message: "Invalid year"})
			return
		}

		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)

		if monthParam := c.Param("month"); monthParam != "" {
			month, err := strconv.Atoi(monthParam)
			if err != nil || month < 1 || month > 12 {
				utils.RenderError(c, &utils.ValidationError{Message: "Invalid month"})
				return
			}
			from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		}

		var articles []models.BlogArticle
		err = query.Where("published_at >= ? AND published_at < ?", from, to).
			Preload("Category").
			Order("published_at desc").
			Find(&articles).Error
		if err != nil {
			utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load archive", Cause: err})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "OK",
			"data":    resources.BlogArticleCollection(articles, locale),
		})
		return
	}

	// Month buckets are computed in memory so the grouping works identically
	// across database engines
	var articles []models.BlogArticle
	if err := query.Select("id, published_at").Order("published_at desc").Find(&articles).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load archive", Cause: err})
		return
	}

	counts := map[string]int{}
	var order []string
	for _, article := range articles {
		key := article.PublishedAt.UTC().Format("2006-01")
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	buckets := make([]gin.H, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, gin.H{"month": key, "count": counts[key]})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    buckets,
	})
}

// BlogAuthors handles GET /api/v1/blog/authors - users with at least one
// published article and their article counts
func BlogAuthors(c *gin.Context) {
	db := config.GetDB()

	type authorCount struct {
		AuthorID uint
		Count    int64
	}
	var rows []authorCount
	err := publishedArticles(db.Model(&models.BlogArticle{})).
		Select("author_id, count(*) as count").
		Where("author_id IS NOT NULL").
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load authors", Cause: err})
		return
	}

	ids := make([]uint, 0, len(rows))
	countByID := map[uint]int64{}
	for _, row := range rows {
		ids = append(ids, row.AuthorID)
		countByID[row.AuthorID] = row.Count
	}

	var users []models.User
	if len(ids) > 0 {
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load authors", Cause: err})
			return
		}
	}

	authors := make([]gin.H, 0, len(users))
	for _, user := range users {
		authors = append(authors, gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"article_count": countByID[user.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data":    authors,
	})
}

// BlogAuthorArticles handles GET /api/v1/blog/authors/:id/articles
func BlogAuthorArticles(c *gin.Context) {
	locale := requestLocale(c)
	db := config.GetDB()
	pg := utils.ParsePagination(c)

	var author models.User
	if err := db.First(&author, c.Param("id")).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RenderError(c, &utils.NotFoundError{Message: "Author not found"})
			return
		}
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load author", Cause: err})
		return
	}

	query := publishedArticles(db.Model(&models.BlogArticle{})).Where("author_id = ?", author.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to count articles", Cause: err})
		return
	}

	var articles []models.BlogArticle
	err := query.Preload("Category").
		Order("published_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&articles).Error
	if err != nil {
		utils.RenderError(c, &utils.UnexpectedError{Message: "Failed to load articles", Cause: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OK",
		"data": gin.H{
			"author":   gin.H{"id": author.ID, "name": author.Name},
			"articles": resources.BlogArticleCollection(articles, locale),
		},
		"pagination": gin.H{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

package httpserver

import (
	"log"
	"net/http"

	"brewhaven-site/internal/domain"
	menurepo "brewhaven-site/internal/repository/menu"

	"github.com/gin-gonic/gin"
)

type menuCategoryResponse struct {
	Title string            `json:"title"`
	Items []domain.MenuItem `json:"items"`
}

// menuHandler serves the menu grouped by category, in menu order.
func menuHandler(repo menurepo.Repository, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu is unavailable"})
			return
		}
		items, err := repo.List(c.Request.Context())
		if err != nil {
			logger.Printf("list menu: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": groupByCategory(items)})
	}
}

func groupByCategory(items []domain.MenuItem) []menuCategoryResponse {
	categories := make([]menuCategoryResponse, 0)
	index := make(map[string]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(categories)
			index[item.Category] = i
			categories = append(categories, menuCategoryResponse{Title: item.Category, Items: []domain.MenuItem{}})
		}
		categories[i].Items = append(categories[i].Items, item)
	}
	return categories
}

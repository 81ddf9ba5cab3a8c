package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kenlim/foodvision/internal/service"
)

// FoodHandler exposes the nutrition reference table.
type FoodHandler struct {
	table *service.ReferenceTable
}

// NewFoodHandler creates a new food handler.
// Parameters:
//   - table: loaded nutrition reference table.
// Returns:
//   - *FoodHandler: initialized handler.
func NewFoodHandler(table *service.ReferenceTable) *FoodHandler {
	return &FoodHandler{table: table}
}

// List handles GET /foods: returns every known reference food with its
// per-100g nutrition values.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FoodHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"foods": h.table.Foods(),
		"count": h.table.Len(),
	})
}

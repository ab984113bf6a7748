package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/utils"
)

type groupDetailResponse struct {
	*models.Group
	RecommendedRestaurants []models.Restaurant `json:"recommendedRestaurants"`
}

func (h *HandlerManager) ListGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.Matches.ListGroups())
}

// GetGroup returns the group with its chosen restaurant first, then the
// alternates picked when it formed.
func (h *HandlerManager) GetGroup(c *gin.Context) {
	group, err := h.Matches.GetGroup(c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}

	recommended := make([]models.Restaurant, 0, len(group.Alternates)+1)
	if group.Restaurant.Name != "" {
		recommended = append(recommended, group.Restaurant)
	}
	recommended = append(recommended, group.Alternates...)

	c.JSON(http.StatusOK, groupDetailResponse{Group: group, RecommendedRestaurants: recommended})
}

// ListRestaurants filters the catalog strictly by menu and price; either
// filter may be omitted.
func (h *HandlerManager) ListRestaurants(c *gin.Context) {
	menu := models.Menu(utils.NormalizeKey(c.Query("menu")))
	price := models.PriceRange(utils.NormalizeKey(c.Query("priceRange")))
	c.JSON(http.StatusOK, h.Recommender.Filter(menu, price))
}

func (h *HandlerManager) RandomRestaurant(c *gin.Context) {
	menu := models.Menu(utils.NormalizeKey(c.Query("menu")))
	price := models.PriceRange(utils.NormalizeKey(c.Query("priceRange")))
	c.JSON(http.StatusOK, h.Recommender.RecommendOne(menu, price))
}

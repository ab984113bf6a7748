package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/models"
)

type userResponse struct {
	*models.Profile
	FoodLevel models.FoodLevel `json:"foodLevel"`
}

func toUserResponse(p *models.Profile) userResponse {
	return userResponse{Profile: p, FoodLevel: models.FoodLevelFor(p.MatchCount)}
}

func (h *HandlerManager) ListUsers(c *gin.Context) {
	profiles, err := h.Profiles.ListProfiles()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]userResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUserResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HandlerManager) GetUser(c *gin.Context) {
	profile, err := h.Profiles.GetProfile(c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(profile))
}

func (h *HandlerManager) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stats.Stats())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportStats returns the stats workbook as an attachment.
func (h *HandlerManager) ExportStats(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Stats.ExportXLSX(&buf); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("lunchmate-stats-%s.xlsx", h.Matches.Now().Format("20060102-1504"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

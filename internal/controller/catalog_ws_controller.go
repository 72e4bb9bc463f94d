package controller

import (
	"sat_practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogWSController struct {
	Hub *service.CatalogHub
}

func NewCatalogWSController(hub *service.CatalogHub) *CatalogWSController {
	return &CatalogWSController{Hub: hub}
}

// Subscribe godoc
// @Summary Live catalog subscription
// @Description Upgrades to a websocket. Send SUBSCRIBE with a view state; CATALOG_PAGE messages follow on every catalog change.
// @Tags Questions
// @Router /api/catalog/ws [get]
func (ctrl *CatalogWSController) Subscribe(c *gin.Context) {
	service.ServeWs(ctrl.Hub, c.Writer, c.Request)
}

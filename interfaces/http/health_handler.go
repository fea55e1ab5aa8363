package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	dataSource string
}

func NewHealthHandler(dataSource string) IHealthHandler {
	return &HealthHandler{dataSource: dataSource}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "dataSource": h.dataSource})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const greeting = "Hello from Fly Media"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, greeting)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

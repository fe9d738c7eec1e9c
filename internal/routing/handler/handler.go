// Package handler exposes the routing module over HTTP.
package handler

import (
	"net/http"

	"salesdesk_backend/internal/routing/service"
	"salesdesk_backend/internal/routing/transport"
	"salesdesk_backend/platform/httpkit"
	"salesdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for routing.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new routing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the routing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reps", httpkit.RequireRole("manager"), h.CreateRep)
	rg.GET("/reps", h.ListReps)
	rg.GET("/reps/:id", h.GetRep)
	rg.PATCH("/reps/:id", httpkit.RequireRole("manager"), h.UpdateRep)
	rg.GET("/rules", h.ListRules)
	rg.POST("/preview", h.Preview)
	rg.GET("/assignments/:leadId", h.GetAssignment)
}

func (h *Handler) CreateRep(c *gin.Context) {
	var req transport.CreateRepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateRep(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) ListReps(c *gin.Context) {
	result, err := h.svc.ListReps(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"reps": result})
}

func (h *Handler) GetRep(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rep id", nil)
		return
	}

	result, err := h.svc.GetRep(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpdateRep(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rep id", nil)
		return
	}

	var req transport.UpdateRepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateRep(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListRules(c *gin.Context) {
	result, err := h.svc.ListRules(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"rules": result})
}

func (h *Handler) Preview(c *gin.Context) {
	var req transport.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Preview(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	if result == nil {
		httpkit.OK(c, gin.H{"assigned": false})
		return
	}
	httpkit.OK(c, gin.H{"assigned": true, "assignment": result})
}

func (h *Handler) GetAssignment(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	result, err := h.svc.GetAssignment(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/app"
	"bizpilot/internal/transport/http/response"
)

// CatalogHandler manages the platform-wide service catalogue. Writes are
// admin-only; reads are open to any authenticated user.
type CatalogHandler struct {
	catalogService *app.CatalogService
}

func NewCatalogHandler(catalogService *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type SaveServiceRequest struct {
	Name        string `json:"name" binding:"max=256"`
	Category    string `json:"category" binding:"max=128"`
	Description string `json:"description" binding:"max=4096"`
	PriceCents  int64  `json:"price_cents" binding:"min=0"`
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var req SaveServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	svc, err := h.catalogService.Create(app.SaveServiceInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create service failed")
		}
		return
	}

	response.OK(c, svc)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	serviceID, err := parseUintParam(c, "id")
	if err != nil || serviceID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid service id")
		return
	}

	var req SaveServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	svc, err := h.catalogService.Update(serviceID, app.SaveServiceInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrServiceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update service failed")
		}
		return
	}

	response.OK(c, svc)
}

func (h *CatalogHandler) List(c *gin.Context) {
	services, err := h.catalogService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list services failed")
		return
	}
	response.OK(c, services)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	serviceID, err := parseUintParam(c, "id")
	if err != nil || serviceID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid service id")
		return
	}

	if err := h.catalogService.Delete(serviceID); err != nil {
		if errors.Is(err, app.ErrServiceNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete service failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_service_id": serviceID})
}

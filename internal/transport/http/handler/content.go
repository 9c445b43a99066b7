package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/app"
	"bizpilot/internal/transport/http/response"
)

// ContentHandler serves LLM-assisted content: playbooks (SOPs) and
// business plans.
type ContentHandler struct {
	playbookService *app.PlaybookService
	planService     *app.PlanService
}

func NewContentHandler(playbookService *app.PlaybookService, planService *app.PlanService) *ContentHandler {
	return &ContentHandler{
		playbookService: playbookService,
		planService:     planService,
	}
}

type SavePlaybookRequest struct {
	Title   string `json:"title" binding:"max=256"`
	Content string `json:"content"`
}

func (h *ContentHandler) CreatePlaybook(c *gin.Context) {
	var req SavePlaybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	playbook, err := h.playbookService.Create(currentUserID(c), getTeamIDFromContext(c), app.SavePlaybookInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create playbook failed")
		}
		return
	}

	response.OK(c, playbook)
}

type GeneratePlaybookRequest struct {
	Title       string `json:"title" binding:"max=256"`
	Description string `json:"description" binding:"required,max=4096"`
}

func (h *ContentHandler) GeneratePlaybook(c *gin.Context) {
	var req GeneratePlaybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	playbook, err := h.playbookService.Generate(c.Request.Context(), currentUserID(c), getTeamIDFromContext(c), app.GeneratePlaybookInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate playbook failed")
		}
		return
	}

	response.OK(c, playbook)
}

func (h *ContentHandler) UpdatePlaybook(c *gin.Context) {
	playbookID, err := parseUintParam(c, "id")
	if err != nil || playbookID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid playbook id")
		return
	}

	var req SavePlaybookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	playbook, err := h.playbookService.Update(currentUserID(c), playbookID, app.SavePlaybookInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPlaybookNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update playbook failed")
		}
		return
	}

	response.OK(c, playbook)
}

func (h *ContentHandler) ListPlaybooks(c *gin.Context) {
	playbooks, err := h.playbookService.List(currentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list playbooks failed")
		return
	}
	response.OK(c, playbooks)
}

func (h *ContentHandler) DeletePlaybook(c *gin.Context) {
	playbookID, err := parseUintParam(c, "id")
	if err != nil || playbookID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid playbook id")
		return
	}

	if err := h.playbookService.Delete(currentUserID(c), playbookID); err != nil {
		if errors.Is(err, app.ErrPlaybookNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete playbook failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_playbook_id": playbookID})
}

type GeneratePlanRequest struct {
	Title               string `json:"title" binding:"max=256"`
	BusinessDescription string `json:"business_description" binding:"required,max=8192"`
	Goals               string `json:"goals" binding:"max=4096"`
}

func (h *ContentHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	plan, err := h.planService.Generate(c.Request.Context(), currentUserID(c), getTeamIDFromContext(c), app.GeneratePlanInput{
		Title:               req.Title,
		BusinessDescription: req.BusinessDescription,
		Goals:               req.Goals,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "generate plan failed")
		}
		return
	}

	response.OK(c, plan)
}

func (h *ContentHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(currentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list plans failed")
		return
	}
	response.OK(c, plans)
}

func (h *ContentHandler) GetPlan(c *gin.Context) {
	planID, err := parseUintParam(c, "id")
	if err != nil || planID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid plan id")
		return
	}

	plan, err := h.planService.Get(currentUserID(c), planID)
	if err != nil {
		if errors.Is(err, app.ErrPlanNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get plan failed")
		}
		return
	}

	response.OK(c, plan)
}

func (h *ContentHandler) DeletePlan(c *gin.Context) {
	planID, err := parseUintParam(c, "id")
	if err != nil || planID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid plan id")
		return
	}

	if err := h.planService.Delete(currentUserID(c), planID); err != nil {
		if errors.Is(err, app.ErrPlanNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete plan failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_plan_id": planID})
}

package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/app"
	"bizpilot/internal/model"
	"bizpilot/internal/pkg/pdfextract"
	"bizpilot/internal/prompt"
	"bizpilot/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

// ChatbotAdminHandler exposes the admin-only chatbot configuration surface.
type ChatbotAdminHandler struct {
	chatbotService *app.ChatbotService
}

type PromptEntryRequest struct {
	Type      string `json:"type" binding:"max=16"`
	Content   string `json:"content"`
	SourceURL string `json:"source_url" binding:"max=512"`
}

type SaveChatbotRequest struct {
	Name     string               `json:"name" binding:"max=128"`
	ModelID  string               `json:"model_id" binding:"max=128"`
	IsActive *bool                `json:"is_active"`
	Entries  []PromptEntryRequest `json:"entries"`
}

type NodeRequest struct {
	NodeKey  string            `json:"node_key" binding:"required,max=64"`
	Settings map[string]string `json:"settings"`
}

type SetNodesRequest struct {
	Nodes []NodeRequest `json:"nodes"`
}

func NewChatbotAdminHandler(chatbotService *app.ChatbotService) *ChatbotAdminHandler {
	return &ChatbotAdminHandler{chatbotService: chatbotService}
}

func (h *ChatbotAdminHandler) Create(c *gin.Context) {
	var req SaveChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	bot, err := h.chatbotService.Create(saveInputFromRequest(req))
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create chatbot failed")
		}
		return
	}

	response.OK(c, bot)
}

func (h *ChatbotAdminHandler) Update(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	var req SaveChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	bot, err := h.chatbotService.Update(chatbotID, saveInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrChatbotNotFound):
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update chatbot failed")
		}
		return
	}

	response.OK(c, bot)
}

func (h *ChatbotAdminHandler) List(c *gin.Context) {
	bots, err := h.chatbotService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list chatbots failed")
		return
	}
	response.OK(c, bots)
}

func (h *ChatbotAdminHandler) Get(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	bot, nodes, err := h.chatbotService.Get(chatbotID)
	if err != nil {
		if errors.Is(err, app.ErrChatbotNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get chatbot failed")
		}
		return
	}

	response.OK(c, gin.H{
		"chatbot": bot,
		"entries": bot.PromptEntries(),
		"nodes":   nodes,
	})
}

func (h *ChatbotAdminHandler) Delete(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	if err := h.chatbotService.Delete(chatbotID); err != nil {
		if errors.Is(err, app.ErrChatbotNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete chatbot failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_chatbot_id": chatbotID})
}

func (h *ChatbotAdminHandler) SetNodes(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	var req SetNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	inputs := make([]app.NodeInput, 0, len(req.Nodes))
	for _, n := range req.Nodes {
		inputs = append(inputs, app.NodeInput{NodeKey: n.NodeKey, Settings: n.Settings})
	}

	nodes, err := h.chatbotService.SetNodes(chatbotID, inputs)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrChatbotNotFound):
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		case errors.Is(err, app.ErrUnknownNodeKind),
			errors.Is(err, app.ErrUnknownDataSource),
			errors.Is(err, app.ErrInvalidScope):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "set nodes failed")
		}
		return
	}

	response.OK(c, nodes)
}

// PromptPreview returns the structured assembly breakdown, optionally
// impersonating a user/team context via query params.
func (h *ChatbotAdminHandler) PromptPreview(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	uc := prompt.UserContext{
		UserID: parseUintQuery(c, "user_id"),
		TeamID: parseUintQuery(c, "team_id"),
	}

	breakdown, err := h.chatbotService.PromptPreview(c.Request.Context(), chatbotID, uc)
	if err != nil {
		if errors.Is(err, app.ErrChatbotNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "assemble preview failed")
		}
		return
	}

	response.OK(c, breakdown)
}

// UploadDocument accepts a multipart PDF, extracts its text, and appends it
// to the chatbot's base prompt entries.
func (h *ChatbotAdminHandler) UploadDocument(c *gin.Context) {
	chatbotID, err := parseUintParam(c, "id")
	if err != nil || chatbotID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid chatbot id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	text, err := pdfextract.ExtractText(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to extract text from PDF: "+err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "PDF contains no extractable text")
		return
	}

	bot, err := h.chatbotService.AppendDocumentEntry(chatbotID, file.Filename, "pdf", text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrChatbotNotFound):
			response.Error(c, http.StatusNotFound, response.CodeChatbotNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "attach document failed")
		}
		return
	}

	response.OK(c, gin.H{
		"chatbot": bot,
		"entries": bot.PromptEntries(),
	})
}

// Options lists the registered node kinds and catalogued data sources for
// the admin UI's pickers.
func (h *ChatbotAdminHandler) Options(c *gin.Context) {
	response.OK(c, gin.H{
		"node_kinds":   prompt.NodeKinds(),
		"data_sources": prompt.DataSourceNames(),
		"scopes":       []prompt.Scope{prompt.ScopeAll, prompt.ScopeTeam, prompt.ScopeUser},
	})
}

func saveInputFromRequest(req SaveChatbotRequest) app.SaveChatbotInput {
	var entries []model.PromptEntry
	if req.Entries != nil {
		entries = make([]model.PromptEntry, 0, len(req.Entries))
		for _, e := range req.Entries {
			entryType := strings.TrimSpace(e.Type)
			if entryType == "" {
				entryType = "text"
			}
			entries = append(entries, model.PromptEntry{
				Type:      entryType,
				Content:   e.Content,
				SourceURL: strings.TrimSpace(e.SourceURL),
			})
		}
	}
	return app.SaveChatbotInput{
		Name:     req.Name,
		ModelID:  req.ModelID,
		IsActive: req.IsActive,
		Entries:  entries,
	}
}

func parseUintQuery(c *gin.Context, key string) uint {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(u)
}

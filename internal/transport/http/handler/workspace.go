package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bizpilot/internal/app"
	"bizpilot/internal/transport/http/response"
)

// WorkspaceHandler serves the day-to-day business records: tasks, clients
// and notes. These double as the data sources chatbots can read from.
type WorkspaceHandler struct {
	taskService   *app.TaskService
	clientService *app.ClientService
	noteService   *app.NoteService
}

func NewWorkspaceHandler(taskService *app.TaskService, clientService *app.ClientService, noteService *app.NoteService) *WorkspaceHandler {
	return &WorkspaceHandler{
		taskService:   taskService,
		clientService: clientService,
		noteService:   noteService,
	}
}

type SaveTaskRequest struct {
	Title  string     `json:"title" binding:"max=256"`
	Status string     `json:"status" binding:"max=32"`
	DueAt  *time.Time `json:"due_at"`
}

func (h *WorkspaceHandler) CreateTask(c *gin.Context) {
	var req SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Create(currentUserID(c), getTeamIDFromContext(c), app.SaveTaskInput{
		Title:  req.Title,
		Status: req.Status,
		DueAt:  req.DueAt,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create task failed")
		}
		return
	}

	response.OK(c, task)
}

func (h *WorkspaceHandler) UpdateTask(c *gin.Context) {
	taskID, err := parseUintParam(c, "id")
	if err != nil || taskID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid task id")
		return
	}

	var req SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	task, err := h.taskService.Update(currentUserID(c), taskID, app.SaveTaskInput{
		Title:  req.Title,
		Status: req.Status,
		DueAt:  req.DueAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTaskNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update task failed")
		}
		return
	}

	response.OK(c, task)
}

func (h *WorkspaceHandler) ListTasks(c *gin.Context) {
	var err error
	var tasks any
	if c.Query("view") == "team" && getTeamIDFromContext(c) != 0 {
		tasks, err = h.taskService.ListForTeam(getTeamIDFromContext(c))
	} else {
		tasks, err = h.taskService.List(currentUserID(c))
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list tasks failed")
		return
	}
	response.OK(c, tasks)
}

func (h *WorkspaceHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseUintParam(c, "id")
	if err != nil || taskID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid task id")
		return
	}

	if err := h.taskService.Delete(currentUserID(c), taskID); err != nil {
		if errors.Is(err, app.ErrTaskNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete task failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_task_id": taskID})
}

type SaveClientRequest struct {
	Name  string `json:"name" binding:"max=256"`
	Email string `json:"email" binding:"max=256"`
	Phone string `json:"phone" binding:"max=64"`
	Notes string `json:"notes" binding:"max=4096"`
}

func (h *WorkspaceHandler) CreateClient(c *gin.Context) {
	var req SaveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	client, err := h.clientService.Create(getTeamIDFromContext(c), app.SaveClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoTeam):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create client failed")
		}
		return
	}

	response.OK(c, client)
}

func (h *WorkspaceHandler) UpdateClient(c *gin.Context) {
	clientID, err := parseUintParam(c, "id")
	if err != nil || clientID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid client id")
		return
	}

	var req SaveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	client, err := h.clientService.Update(getTeamIDFromContext(c), clientID, app.SaveClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrClientNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrNoTeam):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update client failed")
		}
		return
	}

	response.OK(c, client)
}

func (h *WorkspaceHandler) ListClients(c *gin.Context) {
	teamID := getTeamIDFromContext(c)
	if teamID == 0 {
		response.Error(c, http.StatusForbidden, response.CodeForbidden, "user has no team")
		return
	}

	clients, err := h.clientService.List(teamID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list clients failed")
		return
	}
	response.OK(c, clients)
}

func (h *WorkspaceHandler) DeleteClient(c *gin.Context) {
	clientID, err := parseUintParam(c, "id")
	if err != nil || clientID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid client id")
		return
	}

	if err := h.clientService.Delete(getTeamIDFromContext(c), clientID); err != nil {
		switch {
		case errors.Is(err, app.ErrClientNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrNoTeam):
			response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete client failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_client_id": clientID})
}

type SaveNoteRequest struct {
	Title string `json:"title" binding:"max=256"`
	Body  string `json:"body"`
}

func (h *WorkspaceHandler) CreateNote(c *gin.Context) {
	var req SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	note, err := h.noteService.Create(currentUserID(c), app.SaveNoteInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create note failed")
		}
		return
	}

	response.OK(c, note)
}

func (h *WorkspaceHandler) UpdateNote(c *gin.Context) {
	noteID, err := parseUintParam(c, "id")
	if err != nil || noteID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid note id")
		return
	}

	var req SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	note, err := h.noteService.Update(currentUserID(c), noteID, app.SaveNoteInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update note failed")
		}
		return
	}

	response.OK(c, note)
}

func (h *WorkspaceHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteService.List(currentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list notes failed")
		return
	}
	response.OK(c, notes)
}

func (h *WorkspaceHandler) DeleteNote(c *gin.Context) {
	noteID, err := parseUintParam(c, "id")
	if err != nil || noteID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid note id")
		return
	}

	if err := h.noteService.Delete(currentUserID(c), noteID); err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete note failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_note_id": noteID})
}

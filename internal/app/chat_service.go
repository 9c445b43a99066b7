package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"bizpilot/internal/ai"
	"bizpilot/internal/model"
	"bizpilot/internal/prompt"
	"bizpilot/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrChatbotNotFound = errors.New("chatbot not found")
	ErrChatbotInactive = errors.New("chatbot is inactive")
	ErrMessageEmpty    = errors.New("message content is empty")
	ErrLLMConfig       = errors.New("llm config is invalid")
	ErrMessageEnqueue  = errors.New("message enqueue failed")
)

type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

// ChatService runs chat turns: it assembles the chatbot's system prompt for
// the caller, sends it with recent history to the LLM, and persists both
// sides of the turn asynchronously.
type ChatService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	chatbotRepo  *repository.ChatbotRepository
	assembler    *prompt.Assembler
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	llmClient    *ai.Client
	defaultLLM   ai.ChatConfig
	maxContext   int
}

func NewChatService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	chatbotRepo *repository.ChatbotRepository,
	assembler *prompt.Assembler,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	defaultLLM ai.ChatConfig,
	maxContext int,
) *ChatService {
	if maxContext <= 0 {
		maxContext = 20
	}
	return &ChatService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		chatbotRepo:  chatbotRepo,
		assembler:    assembler,
		publisher:    publisher,
		historyCache: historyCache,
		llmClient:    ai.NewClient(),
		defaultLLM:   defaultLLM,
		maxContext:   maxContext,
	}
}

type CreateSessionInput struct {
	UserID          uint
	ChatbotPublicID string
	Title           string
}

func (s *ChatService) CreateSession(input CreateSessionInput) (*model.Session, error) {
	if input.UserID == 0 || strings.TrimSpace(input.ChatbotPublicID) == "" {
		return nil, ErrInvalidInput
	}

	bot, err := s.chatbotRepo.GetByPublicID(strings.TrimSpace(input.ChatbotPublicID))
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrChatbotNotFound
	}
	if !bot.IsActive {
		return nil, ErrChatbotInactive
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Chat"
	}

	session := &model.Session{
		UserID:    input.UserID,
		ChatbotID: bot.ID,
		Title:     title,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListActiveChatbots is the user-facing chatbot picker: active bots only,
// identified by their public ids.
func (s *ChatService) ListActiveChatbots() ([]model.Chatbot, error) {
	return s.chatbotRepo.ListActive()
}

func (s *ChatService) ListSessions(userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *ChatService) DeleteSession(userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.messageRepo.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByIDAndUserID(sessionID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), sessionID)
	}
	return nil
}

type SendMessageInput struct {
	UserID    uint
	TeamID    uint
	SessionID uint
	Content   string
}

type SendMessageResult struct {
	Messages           []model.Message `json:"messages"`
	WebSearchEnabled   bool            `json:"web_search_enabled"`
	AttachmentsEnabled bool            `json:"attachments_enabled"`
}

func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	turn, err := s.prepareTurn(ctx, input)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.enqueueUserMessage(ctx, input)
	if err != nil {
		return nil, err
	}

	assistantContent, err := s.llmClient.Complete(ctx, turn.llm, turn.messages)
	if err != nil {
		return nil, err
	}
	assistantMessage, err := s.enqueueAssistantMessage(ctx, input, assistantContent)
	if err != nil {
		return nil, err
	}
	_ = s.sessionRepo.Touch(input.SessionID)

	return &SendMessageResult{
		Messages:           []model.Message{*userMessage, *assistantMessage},
		WebSearchEnabled:   turn.assembled.WebSearchEnabled,
		AttachmentsEnabled: turn.assembled.AttachmentsEnabled,
	}, nil
}

// StreamMessage is SendMessage with the completion streamed chunk by chunk.
func (s *ChatService) StreamMessage(
	ctx context.Context,
	input SendMessageInput,
	onChunk func(string) error,
) (string, error) {
	turn, err := s.prepareTurn(ctx, input)
	if err != nil {
		return "", err
	}

	if _, err := s.enqueueUserMessage(ctx, input); err != nil {
		return "", err
	}

	full, err := s.llmClient.StreamComplete(ctx, turn.llm, turn.messages, onChunk)
	if err != nil {
		return "", err
	}
	if _, err := s.enqueueAssistantMessage(ctx, input, full); err != nil {
		return "", err
	}
	_ = s.sessionRepo.Touch(input.SessionID)
	return strings.TrimSpace(full), nil
}

func (s *ChatService) GetHistory(userID, sessionID uint, limit int) ([]model.Message, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return messages, nil
}

type preparedTurn struct {
	assembled *prompt.Result
	llm       ai.ChatConfig
	messages  []ai.ChatMessage
}

// prepareTurn validates the session, assembles the chatbot's system prompt
// for this caller, and builds the full LLM conversation payload.
func (s *ChatService) prepareTurn(ctx context.Context, input SendMessageInput) (*preparedTurn, error) {
	if input.UserID == 0 || input.SessionID == 0 {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}
	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	assembled, err := s.assembler.Assemble(ctx, session.ChatbotID, prompt.UserContext{
		UserID: input.UserID,
		TeamID: input.TeamID,
	})
	if err != nil {
		if errors.Is(err, prompt.ErrChatbotNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	if !assembled.Chatbot.IsActive {
		return nil, ErrChatbotInactive
	}

	llm := s.defaultLLM
	if assembled.Chatbot.ModelID != "" {
		llm.Model = assembled.Chatbot.ModelID
	}
	if llm.BaseURL == "" || llm.APIKey == "" || llm.Model == "" {
		return nil, ErrLLMConfig
	}

	recent, err := s.messageRepo.ListRecentBySessionID(input.SessionID, s.maxContext)
	if err != nil {
		return nil, err
	}

	messages := make([]ai.ChatMessage, 0, len(recent)+2)
	messages = append(messages, ai.ChatMessage{Role: model.RoleSystem, Content: assembled.Prompt})
	for _, item := range recent {
		role := item.Role
		if role == "" {
			role = model.RoleUser
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: item.Content})
	}
	messages = append(messages, ai.ChatMessage{Role: model.RoleUser, Content: content})

	return &preparedTurn{assembled: assembled, llm: llm, messages: messages}, nil
}

func (s *ChatService) enqueueUserMessage(ctx context.Context, input SendMessageInput) (*model.Message, error) {
	msg := &model.Message{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      model.RoleUser,
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, input.SessionID)
		_ = s.historyCache.DeleteHistory(ctx, input.SessionID)
	}
	if err := s.publisher.Publish(ctx, *msg); err != nil {
		return nil, ErrMessageEnqueue
	}
	return msg, nil
}

func (s *ChatService) enqueueAssistantMessage(ctx context.Context, input SendMessageInput, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		content = "The model returned an empty response."
	}
	msg := &model.Message{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      model.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, *msg); err != nil {
		return nil, ErrMessageEnqueue
	}
	return msg, nil
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}

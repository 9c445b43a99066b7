package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"bizpilot/internal/model"
	"bizpilot/internal/prompt"
	"bizpilot/internal/repository"
)

var (
	ErrUnknownNodeKind   = errors.New("unknown node kind")
	ErrUnknownDataSource = errors.New("unknown data source")
	ErrInvalidScope      = errors.New("invalid scope")
)

// ChatbotService is the admin surface for chatbot configuration: the base
// prompt entries, the ordered flow nodes, and the explainability preview.
type ChatbotService struct {
	chatbotRepo *repository.ChatbotRepository
	nodeRepo    *repository.FlowNodeRepository
	assembler   *prompt.Assembler
}

func NewChatbotService(
	chatbotRepo *repository.ChatbotRepository,
	nodeRepo *repository.FlowNodeRepository,
	assembler *prompt.Assembler,
) *ChatbotService {
	return &ChatbotService{
		chatbotRepo: chatbotRepo,
		nodeRepo:    nodeRepo,
		assembler:   assembler,
	}
}

type SaveChatbotInput struct {
	Name     string
	ModelID  string
	IsActive *bool // nil = leave unchanged (create defaults to active)
	Entries  []model.PromptEntry
}

func (s *ChatbotService) Create(input SaveChatbotInput) (*model.Chatbot, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	bot := &model.Chatbot{
		PublicID: uuid.NewString(),
		Name:     name,
		ModelID:  strings.TrimSpace(input.ModelID),
		IsActive: true,
	}
	if input.IsActive != nil {
		bot.IsActive = *input.IsActive
	}
	bot.SetPromptEntries(input.Entries)

	if err := s.chatbotRepo.Create(bot); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *ChatbotService) Update(id uint, input SaveChatbotInput) (*model.Chatbot, error) {
	bot, err := s.chatbotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrChatbotNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		bot.Name = name
	}
	bot.ModelID = strings.TrimSpace(input.ModelID)
	if input.IsActive != nil {
		bot.IsActive = *input.IsActive
	}
	if input.Entries != nil {
		bot.SetPromptEntries(input.Entries)
	}

	if err := s.chatbotRepo.Update(bot); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *ChatbotService) List() ([]model.Chatbot, error) {
	return s.chatbotRepo.List()
}

func (s *ChatbotService) Get(id uint) (*model.Chatbot, []model.FlowNode, error) {
	bot, err := s.chatbotRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if bot == nil {
		return nil, nil, ErrChatbotNotFound
	}
	nodes, err := s.nodeRepo.ListByChatbotID(id)
	if err != nil {
		return nil, nil, err
	}
	return bot, nodes, nil
}

func (s *ChatbotService) Delete(id uint) error {
	bot, err := s.chatbotRepo.GetByID(id)
	if err != nil {
		return err
	}
	if bot == nil {
		return ErrChatbotNotFound
	}
	if err := s.nodeRepo.DeleteByChatbotID(id); err != nil {
		return err
	}
	return s.chatbotRepo.Delete(id)
}

// NodeInput is one entry of a chatbot's desired node list, in final order.
type NodeInput struct {
	NodeKey  string
	Settings map[string]string
}

// SetNodes validates and replaces a chatbot's node list. Unlike assembly,
// configuration rejects unknown kinds outright so an admin typo surfaces
// immediately instead of being silently skipped later.
func (s *ChatbotService) SetNodes(chatbotID uint, inputs []NodeInput) ([]model.FlowNode, error) {
	bot, err := s.chatbotRepo.GetByID(chatbotID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrChatbotNotFound
	}

	nodes := make([]model.FlowNode, 0, len(inputs))
	for i, in := range inputs {
		def, ok := prompt.GetNodeDefinition(in.NodeKey)
		if !ok {
			return nil, ErrUnknownNodeKind
		}
		if def.NodeType == prompt.NodeKindDataAccess {
			if err := validateDataAccessSettings(prompt.ResolveSettings(def, in.Settings)); err != nil {
				return nil, err
			}
		}

		node := model.FlowNode{
			ChatbotID:  chatbotID,
			NodeKey:    in.NodeKey,
			OrderIndex: i,
		}
		node.SetSettingsMap(in.Settings)
		nodes = append(nodes, node)
	}

	if err := s.nodeRepo.ReplaceForChatbot(chatbotID, nodes); err != nil {
		return nil, err
	}
	return s.nodeRepo.ListByChatbotID(chatbotID)
}

// AppendDocumentEntry attaches extracted document text as a base prompt
// entry, preserving the source filename and extractor.
func (s *ChatbotService) AppendDocumentEntry(chatbotID uint, sourceName, extractor, content string) (*model.Chatbot, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	bot, err := s.chatbotRepo.GetByID(chatbotID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrChatbotNotFound
	}

	entries := append(bot.PromptEntries(), model.PromptEntry{
		Type:       "document",
		Content:    content,
		SourceName: sourceName,
		Extractor:  extractor,
	})
	bot.SetPromptEntries(entries)

	if err := s.chatbotRepo.Update(bot); err != nil {
		return nil, err
	}
	return bot, nil
}

// PromptPreview assembles the structured breakdown for the admin debug view,
// impersonating the given caller context.
func (s *ChatbotService) PromptPreview(ctx context.Context, chatbotID uint, uc prompt.UserContext) (*prompt.Breakdown, error) {
	breakdown, err := s.assembler.AssembleStructured(ctx, chatbotID, uc)
	if err != nil {
		if errors.Is(err, prompt.ErrChatbotNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, err
	}
	return breakdown, nil
}

func validateDataAccessSettings(settings map[string]string) error {
	if _, ok := prompt.LookupDataSource(settings[prompt.SettingDataSource]); !ok {
		return ErrUnknownDataSource
	}
	switch prompt.Scope(settings[prompt.SettingScope]) {
	case prompt.ScopeAll, prompt.ScopeTeam, prompt.ScopeUser:
		return nil
	default:
		return ErrInvalidScope
	}
}

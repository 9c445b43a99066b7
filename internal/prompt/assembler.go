package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"bizpilot/internal/model"
)

// DefaultBasePrompt is substituted when a chatbot has no usable base prompt
// entries at all.
const DefaultBasePrompt = "You are a helpful AI assistant."

const (
	webSearchSentence   = "You can use the web search tool to look up current information when the conversation requires it."
	attachmentsSentence = "The user may attach files to this conversation; treat attached content as additional context."
	dataHeader          = "Current data for this context:"
	specializationTitle = "[Specialization]"
)

// ErrChatbotNotFound is the only hard-stop condition of an assembly call.
var ErrChatbotNotFound = errors.New("chatbot not found")

// ChatbotStore loads chatbot configuration. GetChatbot returns nil when the
// id does not resolve; GetLinkedNodes must return nodes in ascending order
// index.
type ChatbotStore interface {
	GetChatbot(ctx context.Context, id uint) (*model.Chatbot, error)
	GetLinkedNodes(ctx context.Context, chatbotID uint) ([]model.FlowNode, error)
}

// InstructionBlock is one non-data node's textual contribution, labeled for
// the admin explainability view.
type InstructionBlock struct {
	NodeKey string `json:"node_key"`
	Title   string `json:"title"`
	Text    string `json:"text"`
}

// DataModule is one data_access node's contribution. Data is "" when no
// query was made and NoRowsPlaceholder when the query matched nothing.
type DataModule struct {
	DataSource string `json:"data_source"`
	Scope      Scope  `json:"scope"`
	ScopeText  string `json:"scope_text"`
	Data       string `json:"data"`
}

// Breakdown is the structured assembly payload exposed to the admin surface.
type Breakdown struct {
	Chatbot            *model.Chatbot     `json:"chatbot"`
	BasePrompt         string             `json:"base_prompt"`
	InstructionBlocks  []InstructionBlock `json:"instruction_blocks"`
	DataModules        []DataModule       `json:"data_modules"`
	WebSearchEnabled   bool               `json:"web_search_enabled"`
	AttachmentsEnabled bool               `json:"attachments_enabled"`

	// sections holds every block (base prompt first, then one entry per
	// contributing node) in configured order; the plain prompt is their join.
	sections []string
}

// Result is the plain assembly payload handed to a chat-turn handler.
type Result struct {
	Prompt             string
	Chatbot            *model.Chatbot
	WebSearchEnabled   bool
	AttachmentsEnabled bool
}

// Assembler composes a chatbot's system prompt from its stored base prompt
// and its ordered flow nodes.
type Assembler struct {
	store   ChatbotStore
	fetcher *Fetcher
}

func NewAssembler(store ChatbotStore, fetcher *Fetcher) *Assembler {
	return &Assembler{store: store, fetcher: fetcher}
}

// Assemble returns the final joined prompt for a chat turn. It is a derived
// view over AssembleStructured so the two can never drift.
func (a *Assembler) Assemble(ctx context.Context, chatbotID uint, uc UserContext) (*Result, error) {
	breakdown, err := a.AssembleStructured(ctx, chatbotID, uc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Prompt:             strings.Join(breakdown.sections, "\n\n"),
		Chatbot:            breakdown.Chatbot,
		WebSearchEnabled:   breakdown.WebSearchEnabled,
		AttachmentsEnabled: breakdown.AttachmentsEnabled,
	}, nil
}

// AssembleStructured loads the chatbot and its nodes, fetches data for every
// data_access node, and renders each node's contribution in order. Data
// fetches run concurrently; results are reassembled in node order. Nodes of
// unknown kinds are dropped. A failed fetch degrades to an absent data block
// and never aborts the rest of the assembly.
func (a *Assembler) AssembleStructured(ctx context.Context, chatbotID uint, uc UserContext) (*Breakdown, error) {
	chatbot, err := a.store.GetChatbot(ctx, chatbotID)
	if err != nil {
		return nil, fmt.Errorf("load chatbot failed: %w", err)
	}
	if chatbot == nil {
		return nil, ErrChatbotNotFound
	}

	linked, err := a.store.GetLinkedNodes(ctx, chatbot.ID)
	if err != nil {
		return nil, fmt.Errorf("load chatbot nodes failed: %w", err)
	}

	nodes := resolveNodes(linked)
	basePrompt := buildBasePrompt(chatbot.PromptEntries())

	// Fan the data fetches out; each touches a distinct (source, scope,
	// caller) tuple and writes only its own slot.
	data := make([]string, len(nodes))
	group, fetchCtx := errgroup.WithContext(ctx)
	for i, n := range nodes {
		if n.def.NodeType != NodeKindDataAccess {
			continue
		}
		i, n := i, n
		group.Go(func() error {
			source := n.settings[SettingDataSource]
			scope := Scope(n.settings[SettingScope])
			data[i] = a.fetcher.FetchDataForSource(fetchCtx, source, scope, uc)
			return nil
		})
	}
	_ = group.Wait()

	breakdown := &Breakdown{
		Chatbot:    chatbot,
		BasePrompt: basePrompt,
		sections:   []string{basePrompt},
	}
	for i, n := range nodes {
		switch n.def.NodeType {
		case NodeKindDataAccess:
			source := n.settings[SettingDataSource]
			scope := Scope(n.settings[SettingScope])
			module := DataModule{
				DataSource: source,
				Scope:      scope,
				ScopeText:  ScopeSentence(source, scope),
				Data:       data[i],
			}
			breakdown.DataModules = append(breakdown.DataModules, module)
			section := module.ScopeText
			if module.Data != "" {
				section += "\n\n" + dataHeader + "\n" + module.Data
			}
			breakdown.sections = append(breakdown.sections, section)
		case NodeKindSubAgent:
			expertise := strings.TrimSpace(n.settings[SettingExpertisePrompt])
			if expertise == "" {
				continue
			}
			block := InstructionBlock{
				NodeKey: n.node.NodeKey,
				Title:   specializationTitle,
				Text:    expertise,
			}
			breakdown.InstructionBlocks = append(breakdown.InstructionBlocks, block)
			breakdown.sections = append(breakdown.sections, specializationTitle+"\n"+expertise)
		case NodeKindWebSearch:
			breakdown.WebSearchEnabled = true
			breakdown.InstructionBlocks = append(breakdown.InstructionBlocks, InstructionBlock{
				NodeKey: n.node.NodeKey,
				Title:   n.def.Name,
				Text:    webSearchSentence,
			})
			breakdown.sections = append(breakdown.sections, webSearchSentence)
		case NodeKindAttachments:
			breakdown.AttachmentsEnabled = true
			breakdown.InstructionBlocks = append(breakdown.InstructionBlocks, InstructionBlock{
				NodeKey: n.node.NodeKey,
				Title:   n.def.Name,
				Text:    attachmentsSentence,
			})
			breakdown.sections = append(breakdown.sections, attachmentsSentence)
		}
	}
	return breakdown, nil
}

type resolvedNode struct {
	node     model.FlowNode
	def      NodeDefinition
	settings map[string]string
}

// resolveNodes drops nodes of unknown kinds and overlays each node's settings
// on the registry defaults. Input order is preserved.
func resolveNodes(linked []model.FlowNode) []resolvedNode {
	nodes := make([]resolvedNode, 0, len(linked))
	for _, n := range linked {
		def, ok := GetNodeDefinition(n.NodeKey)
		if !ok {
			continue
		}
		nodes = append(nodes, resolvedNode{
			node:     n,
			def:      def,
			settings: ResolveSettings(def, n.SettingsMap()),
		})
	}
	return nodes
}

// buildBasePrompt joins the non-empty entry contents; a chatbot whose entries
// are all blank still gets a usable prompt.
func buildBasePrompt(entries []model.PromptEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if content := strings.TrimSpace(e.Content); content != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return DefaultBasePrompt
	}
	return strings.Join(parts, "\n\n")
}

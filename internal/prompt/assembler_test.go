package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizpilot/internal/model"
)

type fakeChatbotStore struct {
	chatbot  *model.Chatbot
	nodes    []model.FlowNode
	botErr   error
	nodesErr error
}

func (s *fakeChatbotStore) GetChatbot(_ context.Context, id uint) (*model.Chatbot, error) {
	if s.botErr != nil {
		return nil, s.botErr
	}
	if s.chatbot == nil || s.chatbot.ID != id {
		return nil, nil
	}
	return s.chatbot, nil
}

func (s *fakeChatbotStore) GetLinkedNodes(_ context.Context, _ uint) ([]model.FlowNode, error) {
	if s.nodesErr != nil {
		return nil, s.nodesErr
	}
	return s.nodes, nil
}

// scriptedReader returns a canned result per table.
type scriptedReader struct {
	rowsByTable map[string][]map[string]any
	errByTable  map[string]error
	delay       time.Duration
}

func (r *scriptedReader) Read(_ context.Context, table string, _ []string, _ *Filter, _ string, _ int) ([]map[string]any, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if err := r.errByTable[table]; err != nil {
		return nil, err
	}
	return r.rowsByTable[table], nil
}

func newTestAssembler(store ChatbotStore, reader Reader) *Assembler {
	return NewAssembler(store, NewFetcher(reader, 30, time.Second))
}

func testChatbot(entries ...model.PromptEntry) *model.Chatbot {
	bot := &model.Chatbot{ID: 1, PublicID: "bot-1", Name: "Support Bot", IsActive: true}
	bot.SetPromptEntries(entries)
	return bot
}

func dataNode(source string, scope Scope, order int) model.FlowNode {
	n := model.FlowNode{ChatbotID: 1, NodeKey: NodeKindDataAccess, OrderIndex: order}
	n.SetSettingsMap(map[string]string{SettingDataSource: source, SettingScope: string(scope)})
	return n
}

func TestAssembleMissingChatbot(t *testing.T) {
	assembler := newTestAssembler(&fakeChatbotStore{}, &scriptedReader{})

	_, err := assembler.Assemble(context.Background(), 42, UserContext{})
	assert.ErrorIs(t, err, ErrChatbotNotFound)
}

func TestAssembleBasePromptOnly(t *testing.T) {
	store := &fakeChatbotStore{chatbot: testChatbot(
		model.PromptEntry{Type: "text", Content: "You are a support assistant for Acme."},
	)}
	assembler := newTestAssembler(store, &scriptedReader{})

	result, err := assembler.Assemble(context.Background(), 1, UserContext{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "You are a support assistant for Acme.", result.Prompt)
	assert.False(t, result.WebSearchEnabled)
	assert.False(t, result.AttachmentsEnabled)
}

func TestAssembleDefaultBasePrompt(t *testing.T) {
	t.Run("no entries", func(t *testing.T) {
		assembler := newTestAssembler(&fakeChatbotStore{chatbot: testChatbot()}, &scriptedReader{})
		result, err := assembler.Assemble(context.Background(), 1, UserContext{})
		require.NoError(t, err)
		assert.Equal(t, DefaultBasePrompt, result.Prompt)
	})

	t.Run("all entries blank", func(t *testing.T) {
		store := &fakeChatbotStore{chatbot: testChatbot(
			model.PromptEntry{Type: "text", Content: "   "},
			model.PromptEntry{Type: "text", Content: "\n\t"},
		)}
		assembler := newTestAssembler(store, &scriptedReader{})
		result, err := assembler.Assemble(context.Background(), 1, UserContext{})
		require.NoError(t, err)
		assert.Equal(t, DefaultBasePrompt, result.Prompt)
	})
}

func TestAssembleFullFlow(t *testing.T) {
	subAgent := model.FlowNode{ChatbotID: 1, NodeKey: NodeKindSubAgent, OrderIndex: 1}
	subAgent.SetSettingsMap(map[string]string{SettingExpertisePrompt: "You are an expert in small-business accounting."})

	store := &fakeChatbotStore{
		chatbot: testChatbot(model.PromptEntry{Type: "text", Content: "You are the Acme support assistant."}),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0),
			subAgent,
			{ChatbotID: 1, NodeKey: NodeKindWebSearch, OrderIndex: 2, Settings: "{}"},
			{ChatbotID: 1, NodeKey: NodeKindAttachments, OrderIndex: 3, Settings: "{}"},
		},
	}
	reader := &scriptedReader{rowsByTable: map[string][]map[string]any{
		"tasks": {{"id": 1, "title": "Renew license", "status": "open"}},
	}}
	assembler := newTestAssembler(store, reader)

	result, err := assembler.Assemble(context.Background(), 1, UserContext{UserID: 7, TeamID: 3})
	require.NoError(t, err)

	sections := strings.Split(result.Prompt, "\n\n")
	require.GreaterOrEqual(t, len(sections), 5)
	assert.Equal(t, "You are the Acme support assistant.", sections[0])
	assert.Equal(t, "You have access to tasks records belonging to the current user.", sections[1])
	assert.True(t, strings.HasPrefix(sections[2], dataHeader), "data block follows its scope sentence")
	assert.Contains(t, sections[2], "Renew license")
	assert.Equal(t, specializationTitle+"\nYou are an expert in small-business accounting.", sections[3])
	assert.Equal(t, webSearchSentence, sections[4])
	assert.Equal(t, attachmentsSentence, sections[5])

	assert.True(t, result.WebSearchEnabled)
	assert.True(t, result.AttachmentsEnabled)
}

func TestAssembleNodeOrderPreserved(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0),
			dataNode("notes", ScopeUser, 1),
			dataNode("services", ScopeAll, 2),
		},
	}
	// A small stagger makes out-of-order completion likely if ordering
	// depended on fetch timing.
	reader := &scriptedReader{
		delay: 5 * time.Millisecond,
		rowsByTable: map[string][]map[string]any{
			"tasks":    {{"id": 1, "title": "a"}},
			"notes":    {{"id": 2, "title": "b"}},
			"services": {{"id": 3, "name": "c"}},
		},
	}
	assembler := newTestAssembler(store, reader)

	for i := 0; i < 5; i++ {
		breakdown, err := assembler.AssembleStructured(context.Background(), 1, UserContext{UserID: 7})
		require.NoError(t, err)
		require.Len(t, breakdown.DataModules, 3)
		assert.Equal(t, "tasks", breakdown.DataModules[0].DataSource)
		assert.Equal(t, "notes", breakdown.DataModules[1].DataSource)
		assert.Equal(t, "services", breakdown.DataModules[2].DataSource)
	}
}

func TestAssembleUnknownNodeKindSkipped(t *testing.T) {
	unknown := model.FlowNode{ChatbotID: 1, NodeKey: "crystal_ball", OrderIndex: 0, Settings: "{}"}
	store := &fakeChatbotStore{
		chatbot: testChatbot(model.PromptEntry{Type: "text", Content: "Base."}),
		nodes:   []model.FlowNode{unknown, {ChatbotID: 1, NodeKey: NodeKindWebSearch, OrderIndex: 1, Settings: "{}"}},
	}
	assembler := newTestAssembler(store, &scriptedReader{})

	result, err := assembler.Assemble(context.Background(), 1, UserContext{})
	require.NoError(t, err)
	assert.Equal(t, "Base.\n\n"+webSearchSentence, result.Prompt)
	assert.NotContains(t, result.Prompt, "crystal_ball")
}

func TestAssembleFailedFetchDegrades(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(model.PromptEntry{Type: "text", Content: "Base."}),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0),
			dataNode("notes", ScopeUser, 1),
		},
	}
	reader := &scriptedReader{
		rowsByTable: map[string][]map[string]any{"notes": {{"id": 2, "title": "kept"}}},
		errByTable:  map[string]error{"tasks": errors.New("store down")},
	}
	assembler := newTestAssembler(store, reader)

	breakdown, err := assembler.AssembleStructured(context.Background(), 1, UserContext{UserID: 7})
	require.NoError(t, err, "one failed fetch must not abort the assembly")
	require.Len(t, breakdown.DataModules, 2)
	assert.Empty(t, breakdown.DataModules[0].Data)
	assert.Contains(t, breakdown.DataModules[1].Data, "kept")

	// The failed module still contributes its scope sentence.
	result, err := assembler.Assemble(context.Background(), 1, UserContext{UserID: 7})
	require.NoError(t, err)
	assert.Contains(t, result.Prompt, "You have access to tasks records belonging to the current user.")
}

func TestAssembleEmptyVersusAbsentData(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0), // query runs, matches nothing
			dataNode("notes", ScopeTeam, 1), // fallback wants a user; caller has none
		},
	}
	assembler := newTestAssembler(store, &scriptedReader{})

	breakdown, err := assembler.AssembleStructured(context.Background(), 1, UserContext{UserID: 7, TeamID: 0})
	require.NoError(t, err)
	require.Len(t, breakdown.DataModules, 2)

	// tasks under user scope with a user id: the query ran and found nothing.
	assert.Equal(t, "tasks", breakdown.DataModules[0].DataSource)
	assert.Equal(t, NoRowsPlaceholder, breakdown.DataModules[0].Data)

	// notes under team scope falls back to user, which is present, so the
	// query also runs.
	assert.Equal(t, NoRowsPlaceholder, breakdown.DataModules[1].Data)

	// An anonymous caller makes neither query; both blocks are absent.
	breakdown, err = assembler.AssembleStructured(context.Background(), 1, UserContext{})
	require.NoError(t, err)
	assert.Empty(t, breakdown.DataModules[0].Data)
	assert.Empty(t, breakdown.DataModules[1].Data)
}

func TestAssembleAnonymousCallerSeesNoPrivateData(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeTeam, 0),
			dataNode("notes", ScopeUser, 1),
			dataNode("services", ScopeAll, 2),
		},
	}
	reader := &scriptedReader{rowsByTable: map[string][]map[string]any{
		"tasks":    {{"id": 1, "title": "private"}},
		"notes":    {{"id": 2, "title": "private"}},
		"services": {{"id": 3, "name": "public"}},
	}}
	assembler := newTestAssembler(store, reader)

	breakdown, err := assembler.AssembleStructured(context.Background(), 1, UserContext{})
	require.NoError(t, err)
	require.Len(t, breakdown.DataModules, 3)
	assert.Empty(t, breakdown.DataModules[0].Data)
	assert.Empty(t, breakdown.DataModules[1].Data)
	assert.Contains(t, breakdown.DataModules[2].Data, "public")
}

func TestAssembleIdempotent(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(model.PromptEntry{Type: "text", Content: "Base."}),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0),
			{ChatbotID: 1, NodeKey: NodeKindWebSearch, OrderIndex: 1, Settings: "{}"},
		},
	}
	reader := &scriptedReader{rowsByTable: map[string][]map[string]any{
		"tasks": {{"id": 1, "status": "open", "title": "Renew license"}},
	}}
	assembler := newTestAssembler(store, reader)

	first, err := assembler.Assemble(context.Background(), 1, UserContext{UserID: 7})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := assembler.Assemble(context.Background(), 1, UserContext{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, first.Prompt, again.Prompt, "run %d diverged", i)
	}
}

func TestAssemblePlainIsJoinOfStructured(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot: testChatbot(model.PromptEntry{Type: "text", Content: "Base."}),
		nodes: []model.FlowNode{
			dataNode("tasks", ScopeUser, 0),
			{ChatbotID: 1, NodeKey: NodeKindAttachments, OrderIndex: 1, Settings: "{}"},
		},
	}
	reader := &scriptedReader{rowsByTable: map[string][]map[string]any{
		"tasks": {{"id": 1, "title": "x"}},
	}}
	assembler := newTestAssembler(store, reader)

	uc := UserContext{UserID: 7}
	breakdown, err := assembler.AssembleStructured(context.Background(), 1, uc)
	require.NoError(t, err)
	result, err := assembler.Assemble(context.Background(), 1, uc)
	require.NoError(t, err)

	want := breakdown.BasePrompt
	for _, m := range breakdown.DataModules {
		want += "\n\n" + m.ScopeText + "\n\n" + dataHeader + "\n" + m.Data
	}
	for _, b := range breakdown.InstructionBlocks {
		if b.NodeKey == NodeKindAttachments {
			want += "\n\n" + b.Text
		}
	}
	assert.Equal(t, want, result.Prompt)
}

func TestAssembleNodeLoadFailure(t *testing.T) {
	store := &fakeChatbotStore{
		chatbot:  testChatbot(),
		nodesErr: fmt.Errorf("timeout"),
	}
	assembler := newTestAssembler(store, &scriptedReader{})

	_, err := assembler.Assemble(context.Background(), 1, UserContext{})
	assert.Error(t, err)
}

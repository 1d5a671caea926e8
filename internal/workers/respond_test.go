package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/generation"
	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
)

type fakeAgents struct {
	agent agents.ChatAgent
	err   error
}

func (f *fakeAgents) Get(ctx context.Context, chatAgentID string) (agents.ChatAgent, error) {
	return f.agent, f.err
}

type fakeSessions struct {
	session sessions.ChatSession
	err     error
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (sessions.ChatSession, error) {
	return f.session, f.err
}

type fakeMessageStore struct {
	history    []messages.ChatMessage
	historyErr error
	reply      messages.ChatMessage
	createErr  error

	gotSessionID string
	gotExclude   string
	gotWindow    int
	gotReq       messages.CreateMessageRequest
	createCalls  int
}

func (f *fakeMessageStore) HistoryBefore(ctx context.Context, sessionID, excludeMessageID string, window int) ([]messages.ChatMessage, error) {
	f.gotSessionID = sessionID
	f.gotExclude = excludeMessageID
	f.gotWindow = window
	return f.history, f.historyErr
}

func (f *fakeMessageStore) Create(ctx context.Context, req messages.CreateMessageRequest) (messages.ChatMessage, error) {
	f.createCalls++
	f.gotReq = req
	return f.reply, f.createErr
}

type fakeKnowledge struct {
	kctx *knowledge.AgentContext
	err  error
}

func (f *fakeKnowledge) AgentContext(ctx context.Context, chatAgentID string) (*knowledge.AgentContext, error) {
	return f.kctx, f.err
}

type fakeGenerator struct {
	text   string
	err    error
	gotReq generation.Request
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	f.calls++
	f.gotReq = req
	return f.text, f.err
}

type fakePublisher struct {
	err        error
	gotJob     string
	gotPayload any
	calls      int
}

func (f *fakePublisher) PublishJob(ctx context.Context, job string, payload any) error {
	f.calls++
	f.gotJob = job
	f.gotPayload = payload
	return f.err
}

type responderFixture struct {
	agents    *fakeAgents
	sessions  *fakeSessions
	messages  *fakeMessageStore
	knowledge *fakeKnowledge
	generator *fakeGenerator
	jobs      *fakePublisher
}

func newResponderFixture() *responderFixture {
	return &responderFixture{
		agents: &fakeAgents{agent: agents.ChatAgent{
			ID:           "agent-1",
			CustomerID:   "customer-1",
			Name:         "Support",
			SystemPrompt: "You are a support assistant.",
			IsActive:     true,
		}},
		sessions: &fakeSessions{session: sessions.ChatSession{
			ID:              "session-1",
			ChatAgentID:     "agent-1",
			CustomerID:      "customer-1",
			CustomerStaffID: "staff-1",
			Platform:        "slack",
			Status:          sessions.StatusActive,
		}},
		messages: &fakeMessageStore{
			history: []messages.ChatMessage{
				{ID: "m1", MessageType: messages.TypeUser, Content: "earlier question"},
				{ID: "m2", MessageType: messages.TypeAI, Content: "earlier answer"},
			},
			reply: messages.ChatMessage{ID: "reply-1", ChatSessionID: "session-1", MessageType: messages.TypeAI},
		},
		knowledge: &fakeKnowledge{},
		generator: &fakeGenerator{text: "generated answer"},
		jobs:      &fakePublisher{},
	}
}

func (fx *responderFixture) responder(cfg config.HistoryConfig) *Responder {
	return NewResponder(nil, fx.agents, fx.sessions, fx.messages, fx.knowledge, fx.generator, fx.jobs, cfg)
}

func inboundPayload() queue.ProcessInboundMessagePayload {
	return queue.ProcessInboundMessagePayload{
		ChatSessionID:   "session-1",
		ChatMessageID:   "message-1",
		ChatAgentID:     "agent-1",
		CustomerID:      "customer-1",
		CustomerStaffID: "staff-1",
		Platform:        "slack",
		Message:         "what is the refund policy?",
	}
}

func TestRespondHappyPath(t *testing.T) {
	fx := newResponderFixture()
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if fx.messages.gotSessionID != "session-1" || fx.messages.gotExclude != "message-1" {
		t.Errorf("history lookup = (%q, %q), want (session-1, message-1)", fx.messages.gotSessionID, fx.messages.gotExclude)
	}
	if fx.messages.gotWindow != config.DefaultHistoryWindow {
		t.Errorf("history window = %d, want %d", fx.messages.gotWindow, config.DefaultHistoryWindow)
	}

	req := fx.generator.gotReq
	if req.SystemPrompt != "You are a support assistant." {
		t.Errorf("system prompt = %q", req.SystemPrompt)
	}
	if req.Query != "what is the refund policy?" {
		t.Errorf("query = %q", req.Query)
	}
	if len(req.History) != 2 {
		t.Fatalf("history len = %d, want 2", len(req.History))
	}
	if req.History[0].Role != messages.TypeUser || req.History[1].Role != messages.TypeAI {
		t.Errorf("history roles = %q, %q", req.History[0].Role, req.History[1].Role)
	}

	if fx.messages.gotReq.MessageType != messages.TypeAI {
		t.Errorf("reply type = %q, want ai", fx.messages.gotReq.MessageType)
	}
	if fx.messages.gotReq.Content != "generated answer" {
		t.Errorf("reply content = %q", fx.messages.gotReq.Content)
	}
	if fx.messages.gotReq.Metadata["respondedTo"] != "message-1" {
		t.Errorf("respondedTo = %v", fx.messages.gotReq.Metadata["respondedTo"])
	}
	if fx.messages.gotReq.Metadata["platform"] != "slack" {
		t.Errorf("platform metadata = %v", fx.messages.gotReq.Metadata["platform"])
	}

	if fx.jobs.gotJob != queue.JobSendMessage {
		t.Errorf("published job = %q, want %q", fx.jobs.gotJob, queue.JobSendMessage)
	}
	payload, ok := fx.jobs.gotPayload.(queue.SendMessagePayload)
	if !ok {
		t.Fatalf("payload type = %T", fx.jobs.gotPayload)
	}
	if payload.ChatMessageID != "reply-1" {
		t.Errorf("payload message id = %q, want reply-1", payload.ChatMessageID)
	}
}

func TestRespondConfiguredWindow(t *testing.T) {
	fx := newResponderFixture()
	r := fx.responder(config.HistoryConfig{Window: 3})

	if err := r.Handle(context.Background(), inboundPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.messages.gotWindow != 3 {
		t.Errorf("history window = %d, want 3", fx.messages.gotWindow)
	}
}

func TestRespondKnowledgeContextAttached(t *testing.T) {
	fx := newResponderFixture()
	fx.knowledge.kctx = &knowledge.AgentContext{
		KnowledgeID: "knowledge-1",
		FileIDs:     []string{"file-1", "file-2"},
	}
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.generator.gotReq.KnowledgeID != "knowledge-1" {
		t.Errorf("knowledge id = %q", fx.generator.gotReq.KnowledgeID)
	}
	if len(fx.generator.gotReq.KnowledgeFileIDs) != 2 {
		t.Errorf("file ids = %v", fx.generator.gotReq.KnowledgeFileIDs)
	}
}

func TestRespondAgentMissingAcked(t *testing.T) {
	fx := newResponderFixture()
	fx.agents.err = agents.ErrChatAgentNotFound
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.generator.calls != 0 {
		t.Error("generator called for missing agent")
	}
}

func TestRespondSessionMissingAcked(t *testing.T) {
	fx := newResponderFixture()
	fx.sessions.err = sessions.ErrSessionNotFound
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.generator.calls != 0 {
		t.Error("generator called for missing session")
	}
}

func TestRespondGeneratorErrorRetried(t *testing.T) {
	fx := newResponderFixture()
	fx.generator.err = errors.New("upstream timeout")
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
	if fx.messages.createCalls != 0 {
		t.Error("reply persisted despite generation failure")
	}
}

func TestRespondPublishErrorRetried(t *testing.T) {
	fx := newResponderFixture()
	fx.jobs.err = errors.New("broker down")
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
}

func TestRespondTransientAgentErrorRetried(t *testing.T) {
	fx := newResponderFixture()
	fx.agents.err = errors.New("connection refused")
	r := fx.responder(config.HistoryConfig{})

	if err := r.Handle(context.Background(), inboundPayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
}

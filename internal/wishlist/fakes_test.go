package wishlist

import (
	"context"
	"sync"
	"sync/atomic"
)

type fakeJudge struct {
	chatFn  func(context.Context, Persona, string, string) (string, error)
	panelFn func(context.Context, string, string) (PanelReply, error)

	chatCalls  atomic.Int32
	panelCalls atomic.Int32

	mu       sync.Mutex
	messages []string
}

func (f *fakeJudge) Chat(ctx context.Context, persona Persona, message, background string) (string, error) {
	f.chatCalls.Add(1)
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	if f.chatFn != nil {
		return f.chatFn(ctx, persona, message, background)
	}
	return "You are on the Nice List!", nil
}

func (f *fakeJudge) Panel(ctx context.Context, question, background string) (PanelReply, error) {
	f.panelCalls.Add(1)
	if f.panelFn != nil {
		return f.panelFn(ctx, question, background)
	}
	return PanelReply{Angel: "shine", Devil: "try harder", Nicholas: "ho ho ho"}, nil
}

func (f *fakeJudge) lastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

type fakeExtractor struct {
	text  string
	err   error
	calls atomic.Int32
}

func (f *fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	f.calls.Add(1)
	return f.text, f.err
}

func newTestSession(judge JudgmentService, extractor DocumentExtractor) *Session {
	s, err := Init(Options{
		ID:        "test-session",
		Assigner:  NewSeededVerdictAssigner(7, DefaultNaughtyRate),
		Judge:     judge,
		Extractor: extractor,
	})
	if err != nil {
		panic(err)
	}
	return s
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wishlist/api/internal/session"
	"wishlist/api/internal/wishlist"
)

// Service is the application layer between HTTP and the session registry.
// The stateless methods serve the compatibility endpoints and share the
// same judgment service and extractor as the sessions.
type Service struct {
	registry  *session.Registry
	judge     wishlist.JudgmentService
	extractor wishlist.DocumentExtractor
	logger    *zap.Logger
}

func NewService(registry *session.Registry, judge wishlist.JudgmentService, extractor wishlist.DocumentExtractor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:  registry,
		judge:     judge,
		extractor: extractor,
		logger:    logger,
	}
}

// WishResult is returned after a submission.
type WishResult struct {
	Wish    wishlist.Wish `json:"wish"`
	Session wishlist.View `json:"session"`
}

// DocumentResult is returned after an upload.
type DocumentResult struct {
	Text    string        `json:"text"`
	Session wishlist.View `json:"session"`
}

func (s *Service) Ping(ctx context.Context) error {
	return s.registry.Ping(ctx)
}

func (s *Service) CreateSession(ctx context.Context) (wishlist.View, error) {
	sess, err := s.registry.Create(ctx)
	if err != nil {
		return wishlist.View{}, err
	}
	return sess.View(), nil
}

func (s *Service) GetSession(ctx context.Context, id string) (wishlist.View, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return wishlist.View{}, err
	}
	return sess.View(), nil
}

func (s *Service) EndSession(ctx context.Context, id string) error {
	return s.registry.Teardown(ctx, id)
}

func (s *Service) SubmitWish(ctx context.Context, id, text string) (WishResult, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return WishResult{}, err
	}
	wish, err := sess.SubmitWish(text)
	if err != nil {
		return WishResult{}, err
	}
	return WishResult{Wish: wish, Session: sess.View()}, nil
}

func (s *Service) SelectTier(ctx context.Context, id, tierID string) (wishlist.View, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return wishlist.View{}, err
	}
	if _, err := sess.SelectTier(tierID); err != nil {
		return wishlist.View{}, err
	}
	return sess.View(), nil
}

func (s *Service) Finalize(ctx context.Context, id string) (wishlist.View, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return wishlist.View{}, err
	}
	if _, err := sess.Finalize(ctx); err != nil {
		return wishlist.View{}, err
	}
	return sess.View(), nil
}

func (s *Service) UploadDocument(ctx context.Context, id string, data []byte, mimeHint string) (DocumentResult, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return DocumentResult{}, err
	}
	text, err := sess.UploadDocument(ctx, data, mimeHint)
	if err != nil {
		return DocumentResult{}, err
	}
	return DocumentResult{Text: text, Session: sess.View()}, nil
}

func (s *Service) Ask(ctx context.Context, id, question string) (wishlist.View, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return wishlist.View{}, err
	}
	if _, err := sess.Ask(ctx, question); err != nil {
		return wishlist.View{}, err
	}
	return sess.View(), nil
}

func (s *Service) Chat(ctx context.Context, id, persona, message string) (string, error) {
	sess, err := s.registry.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.Chat(ctx, persona, message)
}

// ChatOnce answers one message without a session; background is supplied by
// the caller.
func (s *Service) ChatOnce(ctx context.Context, persona, message, background string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", wishlist.ErrEmptyInput
	}
	reply, err := s.judge.Chat(context.WithoutCancel(ctx), wishlist.NormalizePersona(persona), message, background)
	if err != nil {
		s.logger.Warn("stateless chat failed", zap.Error(err))
		return "", unavailable(err)
	}
	if strings.TrimSpace(reply) == "" {
		return wishlist.ChatFallback, nil
	}
	return reply, nil
}

// PanelOnce asks all three personas without a session.
func (s *Service) PanelOnce(ctx context.Context, question, background string) (wishlist.PanelReply, error) {
	if strings.TrimSpace(question) == "" {
		return wishlist.PanelReply{}, wishlist.ErrEmptyInput
	}
	reply, err := s.judge.Panel(context.WithoutCancel(ctx), question, background)
	if err != nil {
		s.logger.Warn("stateless panel failed", zap.Error(err))
		return wishlist.PanelReply{}, unavailable(err)
	}
	return reply, nil
}

// ExtractOnce runs the document gateway against a throwaway context.
func (s *Service) ExtractOnce(ctx context.Context, data []byte, mimeHint string) (string, error) {
	gateway := wishlist.NewDocumentGateway(s.extractor, &wishlist.DocumentContext{})
	return gateway.Extract(ctx, data, mimeHint)
}

func unavailable(err error) error {
	if errors.Is(err, wishlist.ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", wishlist.ErrServiceUnavailable, err)
}

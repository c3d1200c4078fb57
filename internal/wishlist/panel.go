package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "pending"
	ExchangeResolved ExchangeStatus = "resolved"
)

// Exchange is the most recent advisory question and, once resolved, the
// three persona answers.
type Exchange struct {
	Question string         `json:"question"`
	Status   ExchangeStatus `json:"status"`
	Angel    string         `json:"angel,omitempty"`
	Devil    string         `json:"devil,omitempty"`
	Nicholas string         `json:"nicholas,omitempty"`
}

// AdvisoryPanel answers one question at a time with three personas sharing
// the current document context. A second question while one is pending is
// rejected, not queued.
type AdvisoryPanel struct {
	mu       sync.Mutex
	service  JudgmentService
	document *DocumentContext
	ready    func() bool
	exchange *Exchange
	life     *lifecycle
	logger   *zap.Logger
}

func newAdvisoryPanel(service JudgmentService, document *DocumentContext, ready func() bool, life *lifecycle, logger *zap.Logger) *AdvisoryPanel {
	return &AdvisoryPanel{
		service:  service,
		document: document,
		ready:    ready,
		life:     life,
		logger:   logger,
	}
}

// Current returns the retained exchange, if any.
func (p *AdvisoryPanel) Current() (Exchange, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exchange == nil {
		return Exchange{}, false
	}
	return *p.exchange, true
}

// Ask issues one panel call for question. Document context is optional
// background. On failure the exchange is dropped and the error wraps
// ErrServiceUnavailable so the caller can retry.
func (p *AdvisoryPanel) Ask(ctx context.Context, question string) (Exchange, error) {
	if strings.TrimSpace(question) == "" {
		return Exchange{}, ErrEmptyInput
	}

	p.mu.Lock()
	if !p.ready() {
		p.mu.Unlock()
		return Exchange{}, ErrPanelLocked
	}
	if p.exchange != nil && p.exchange.Status == ExchangePending {
		p.mu.Unlock()
		return Exchange{}, ErrSessionBusy
	}
	pending := &Exchange{Question: question, Status: ExchangePending}
	p.exchange = pending
	p.mu.Unlock()

	background, _ := p.document.Get()
	reply, err := p.service.Panel(detach(ctx), question, background)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.life.isClosed() {
		p.exchange = nil
		return Exchange{}, ErrSessionClosed
	}
	if err != nil {
		p.logger.Warn("panel call failed", zap.Error(err))
		p.exchange = nil
		return Exchange{}, serviceError(err)
	}
	pending.Status = ExchangeResolved
	pending.Angel = reply.Angel
	pending.Devil = reply.Devil
	pending.Nicholas = reply.Nicholas
	return *pending, nil
}

func serviceError(err error) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}

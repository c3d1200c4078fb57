package wishlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ChatFallback replaces a blank free-chat reply.
const ChatFallback = "Ho ho ho! That's a wonderful message!"

// Options wires a Session to its collaborators.
type Options struct {
	ID         string
	Tiers      *TierPolicy
	Assigner   *VerdictAssigner
	Saturation int
	Judge      JudgmentService
	Extractor  DocumentExtractor
	Logger     *zap.Logger
}

// Session owns all engagement state for one user visit: the ledger, tier
// selection, judgment, document context and advisory panel. Init starts it,
// Teardown ends it; after Teardown every operation fails with
// ErrSessionClosed and late collaborator results are dropped.
type Session struct {
	id        string
	createdAt time.Time
	life      lifecycle
	logger    *zap.Logger

	judge    JudgmentService
	tiers    *TierPolicy
	ledger   *Ledger
	judgment *JudgmentSession
	document *DocumentContext
	gateway  *DocumentGateway
	panel    *AdvisoryPanel

	mu       sync.Mutex
	selected string
}

func Init(opts Options) (*Session, error) {
	if strings.TrimSpace(opts.ID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if opts.Judge == nil {
		return nil, fmt.Errorf("judgment service is required")
	}
	if opts.Extractor == nil {
		return nil, fmt.Errorf("document extractor is required")
	}
	tiers := opts.Tiers
	if tiers == nil {
		var err error
		if tiers, err = NewTierPolicy(DefaultTiers()); err != nil {
			return nil, err
		}
	}
	assigner := opts.Assigner
	if assigner == nil {
		assigner = NewSeededVerdictAssigner(time.Now().UnixNano(), DefaultNaughtyRate)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session_id", opts.ID))

	s := &Session{
		id:        opts.ID,
		createdAt: time.Now().UTC(),
		logger:    logger,
		judge:     opts.Judge,
		tiers:     tiers,
		ledger:    NewLedger(assigner, opts.Saturation),
		document:  &DocumentContext{},
		selected:  tiers.Lowest().ID,
	}
	s.judgment = newJudgmentSession(opts.Judge, &s.life, logger)
	s.gateway = NewDocumentGateway(opts.Extractor, s.document)
	s.panel = newAdvisoryPanel(opts.Judge, s.document, func() bool {
		return s.judgment.State().Concluded()
	}, &s.life, logger)
	logger.Debug("session started")
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Teardown ends the session. It is safe to call more than once.
func (s *Session) Teardown() {
	if s.life.close() {
		s.logger.Debug("session torn down")
	}
}

func (s *Session) Closed() bool { return s.life.isClosed() }

func (s *Session) SubmitWish(text string) (Wish, error) {
	if s.Closed() {
		return Wish{}, ErrSessionClosed
	}
	return s.ledger.Submit(text)
}

func (s *Session) Metric() float64 {
	return s.ledger.Metric()
}

// SelectTier replaces the current selection when id is unlocked.
func (s *Session) SelectTier(id string) (Tier, error) {
	if s.Closed() {
		return Tier{}, ErrSessionClosed
	}
	tier, err := s.tiers.Select(id, s.ledger.Metric())
	if err != nil {
		return Tier{}, err
	}
	s.mu.Lock()
	s.selected = tier.ID
	s.mu.Unlock()
	return tier, nil
}

// SelectedTier returns the current selection, clamped to an unlocked tier.
func (s *Session) SelectedTier() Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	tier := s.tiers.Clamp(s.selected, s.ledger.Metric())
	s.selected = tier.ID
	return tier
}

func (s *Session) Finalize(ctx context.Context) (JudgmentState, error) {
	if s.Closed() {
		return JudgmentState{}, ErrSessionClosed
	}
	return s.judgment.Finalize(ctx, s.ledger)
}

func (s *Session) Judgment() JudgmentState {
	return s.judgment.State()
}

// UploadDocument extracts text from a document and makes it the shared
// background for advisory questions.
func (s *Session) UploadDocument(ctx context.Context, data []byte, mimeHint string) (string, error) {
	if s.Closed() {
		return "", ErrSessionClosed
	}
	text, err := s.gateway.Extract(ctx, data, mimeHint)
	if err != nil {
		s.logger.Warn("document extraction failed", zap.Error(err))
		return "", err
	}
	if s.Closed() {
		return "", ErrSessionClosed
	}
	return text, nil
}

// SetContext stores already-extracted document text.
func (s *Session) SetContext(text string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	return s.document.Set(text)
}

func (s *Session) DocumentContext() (string, bool) {
	return s.document.Get()
}

func (s *Session) Ask(ctx context.Context, question string) (Exchange, error) {
	if s.Closed() {
		return Exchange{}, ErrSessionClosed
	}
	return s.panel.Ask(ctx, question)
}

// Chat sends a free-form message to one persona with the document context as
// background. Nothing is retained.
func (s *Session) Chat(ctx context.Context, persona, message string) (string, error) {
	if s.Closed() {
		return "", ErrSessionClosed
	}
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyInput
	}
	background, _ := s.document.Get()
	reply, err := s.judge.Chat(detach(ctx), NormalizePersona(persona), message, background)
	if s.Closed() {
		return "", ErrSessionClosed
	}
	if err != nil {
		s.logger.Warn("chat call failed", zap.Error(err))
		return "", serviceError(err)
	}
	if strings.TrimSpace(reply) == "" {
		return ChatFallback, nil
	}
	return reply, nil
}

// TierView is a tier annotated with its lock state.
type TierView struct {
	Tier
	Unlocked bool `json:"unlocked"`
}

// View is the read model handed to the presentation layer.
type View struct {
	SessionID    string        `json:"sessionId"`
	Wishes       []Wish        `json:"wishes"`
	Metric       float64       `json:"metric"`
	Tiers        []TierView    `json:"tiers"`
	SelectedTier string        `json:"selectedTier"`
	Judgment     JudgmentState `json:"judgment"`
	HasDocument  bool          `json:"hasDocument"`
	PanelEnabled bool          `json:"panelEnabled"`
	Exchange     *Exchange     `json:"exchange,omitempty"`
}

func (s *Session) View() View {
	metric := s.ledger.Metric()
	tiers := s.tiers.Tiers()
	views := make([]TierView, 0, len(tiers))
	for _, tier := range tiers {
		views = append(views, TierView{Tier: tier, Unlocked: s.tiers.IsSelectable(tier, metric)})
	}
	judgment := s.judgment.State()
	_, hasDocument := s.document.Get()
	view := View{
		SessionID:    s.id,
		Wishes:       s.ledger.Wishes(),
		Metric:       metric,
		Tiers:        views,
		SelectedTier: s.SelectedTier().ID,
		Judgment:     judgment,
		HasDocument:  hasDocument,
		PanelEnabled: judgment.Concluded() && hasDocument,
	}
	if exchange, ok := s.panel.Current(); ok {
		view.Exchange = &exchange
	}
	return view
}

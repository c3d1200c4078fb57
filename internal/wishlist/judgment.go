package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type JudgmentStatus string

const (
	JudgmentIdle     JudgmentStatus = "idle"
	JudgmentPending  JudgmentStatus = "pending"
	JudgmentResolved JudgmentStatus = "resolved"
	JudgmentFailed   JudgmentStatus = "failed"
)

const (
	judgmentPromptTemplate = "Please review my complete Christmas wish list and give me your final verdict:\n\n%s\n\nAm I on the Nice List or Naughty List this year?"

	// FallbackVerdict is shown when the judgment call fails.
	FallbackVerdict = "Ho ho ho! My magic connection seems to be having trouble. Try again in a moment! 🎅"
	// UndecidedVerdict replaces a blank reply from a successful call.
	UndecidedVerdict = "Santa couldn't decide... try again!"
)

type JudgmentState struct {
	Status JudgmentStatus `json:"status"`
	Text   string         `json:"text,omitempty"`
}

// Concluded reports whether the judgment reached a terminal state.
func (s JudgmentState) Concluded() bool {
	return s.Status == JudgmentResolved || s.Status == JudgmentFailed
}

// JudgmentPrompt wraps a ledger snapshot in the fixed judgment request.
func JudgmentPrompt(snapshot string) string {
	return fmt.Sprintf(judgmentPromptTemplate, snapshot)
}

// JudgmentSession submits a finished ledger exactly once and keeps the
// terminal verdict. It never retries.
type JudgmentSession struct {
	mu      sync.Mutex
	state   JudgmentState
	service JudgmentService
	life    *lifecycle
	logger  *zap.Logger
}

func newJudgmentSession(service JudgmentService, life *lifecycle, logger *zap.Logger) *JudgmentSession {
	return &JudgmentSession{
		state:   JudgmentState{Status: JudgmentIdle},
		service: service,
		life:    life,
		logger:  logger,
	}
}

func (j *JudgmentSession) State() JudgmentState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Finalize freezes the ledger and asks the judgment service for a verdict.
// Repeated calls are no-ops that return the existing state. Service failures
// resolve to FallbackVerdict rather than an error.
func (j *JudgmentSession) Finalize(ctx context.Context, ledger *Ledger) (JudgmentState, error) {
	message, err := j.begin(ledger)
	if errors.Is(err, ErrAlreadySubmitted) {
		return j.State(), nil
	}
	if err != nil {
		return JudgmentState{Status: JudgmentIdle}, err
	}

	reply, callErr := j.service.Chat(detach(ctx), PersonaNicholas, message, "")

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.life.isClosed() {
		return j.state, ErrSessionClosed
	}
	if callErr != nil {
		j.logger.Warn("judgment call failed", zap.Error(callErr))
		j.state = JudgmentState{Status: JudgmentFailed, Text: FallbackVerdict}
		return j.state, nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = UndecidedVerdict
	}
	j.state = JudgmentState{Status: JudgmentResolved, Text: reply}
	return j.state, nil
}

func (j *JudgmentSession) begin(ledger *Ledger) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Status != JudgmentIdle {
		return "", ErrAlreadySubmitted
	}
	if ledger.Len() == 0 {
		return "", ErrEmptyLedger
	}
	ledger.freeze()
	j.state = JudgmentState{Status: JudgmentPending}
	return JudgmentPrompt(ledger.SnapshotForJudgment()), nil
}

package wishlist

import (
	"fmt"
	"strings"
	"sync"
)

type Verdict string

const (
	VerdictNice    Verdict = "NICE"
	VerdictNaughty Verdict = "NAUGHTY"
)

// Wish is immutable once created by a Ledger.
type Wish struct {
	ID      int64   `json:"id"`
	Text    string  `json:"text"`
	Verdict Verdict `json:"verdict"`
}

// DefaultSaturation is the wish count at which the engagement metric reaches 100.
const DefaultSaturation = 10

// Ledger is the ordered, append-only list of wishes for one session.
// Insertion order is display order and judgment order.
type Ledger struct {
	mu         sync.Mutex
	assigner   *VerdictAssigner
	saturation int
	wishes     []Wish
	nextID     int64
	frozen     bool
}

func NewLedger(assigner *VerdictAssigner, saturation int) *Ledger {
	if saturation <= 0 {
		saturation = DefaultSaturation
	}
	return &Ledger{
		assigner:   assigner,
		saturation: saturation,
		nextID:     1,
	}
}

// Submit appends a new wish with a verdict drawn from the assigner.
func (l *Ledger) Submit(text string) (Wish, error) {
	if strings.TrimSpace(text) == "" {
		return Wish{}, ErrEmptyInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.frozen {
		return Wish{}, ErrLedgerFrozen
	}
	wish := Wish{
		ID:      l.nextID,
		Text:    text,
		Verdict: l.assigner.Assign(text),
	}
	l.nextID++
	l.wishes = append(l.wishes, wish)
	return wish, nil
}

// Metric returns min(100, 100*count/saturation).
func (l *Ledger) Metric() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return engagementMetric(len(l.wishes), l.saturation)
}

func engagementMetric(count, saturation int) float64 {
	if count >= saturation {
		return 100
	}
	return 100 * float64(count) / float64(saturation)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.wishes)
}

// Wishes returns a copy of the ledger in insertion order.
func (l *Ledger) Wishes() []Wish {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Wish, len(l.wishes))
	copy(out, l.wishes)
	return out
}

func (l *Ledger) Frozen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frozen
}

func (l *Ledger) freeze() {
	l.mu.Lock()
	l.frozen = true
	l.mu.Unlock()
}

// SnapshotForJudgment renders the ledger as the 1-indexed enumeration the
// judgment prompt expects:
//
//  1. "a bike" (marked as NICE)
func (l *Ledger) SnapshotForJudgment() string {
	return FormatSnapshot(l.Wishes())
}

func FormatSnapshot(wishes []Wish) string {
	lines := make([]string, 0, len(wishes))
	for i, wish := range wishes {
		lines = append(lines, fmt.Sprintf("%d. \"%s\" (marked as %s)", i+1, wish.Text, wish.Verdict))
	}
	return strings.Join(lines, "\n")
}

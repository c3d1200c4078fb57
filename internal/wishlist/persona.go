package wishlist

import (
	"context"
	"strings"
)

type Persona string

const (
	PersonaNicholas Persona = "nicholas"
	PersonaAngel    Persona = "angel"
	PersonaDevil    Persona = "devil"
)

// NormalizePersona maps a free-form name onto a known persona; anything
// unrecognised falls back to Nicholas.
func NormalizePersona(name string) Persona {
	switch Persona(strings.ToLower(strings.TrimSpace(name))) {
	case PersonaAngel:
		return PersonaAngel
	case PersonaDevil:
		return PersonaDevil
	default:
		return PersonaNicholas
	}
}

// PanelReply carries one answer per persona to the same question.
type PanelReply struct {
	Angel    string `json:"angel"`
	Devil    string `json:"devil"`
	Nicholas string `json:"nicholas"`
}

// JudgmentService is the remote conversational collaborator. Implementations
// make exactly one attempt per call and never retry.
type JudgmentService interface {
	// Chat sends message to a single persona. background, when non-empty, is
	// shared document context.
	Chat(ctx context.Context, persona Persona, message, background string) (string, error)
	// Panel asks all three personas the same question with the same background.
	Panel(ctx context.Context, question, background string) (PanelReply, error)
}

// DocumentExtractor turns an uploaded document into plain text.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

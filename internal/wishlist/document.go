package wishlist

import (
	"context"
	"mime"
	"strings"
	"sync"
)

// MIMEPDF is the only document format accepted for upload.
const MIMEPDF = "application/pdf"

// DocumentContext holds the most recently extracted document text.
type DocumentContext struct {
	mu      sync.Mutex
	text    string
	present bool
}

// Set replaces the context wholesale. Blank text is rejected and leaves the
// previous value in place.
func (d *DocumentContext) Set(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyDocument
	}
	d.mu.Lock()
	d.text = trimmed
	d.present = true
	d.mu.Unlock()
	return nil
}

func (d *DocumentContext) Get() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.present
}

// DocumentGateway validates an upload, delegates to the extractor once and
// stores the result in the document context.
type DocumentGateway struct {
	extractor DocumentExtractor
	holder    *DocumentContext
}

func NewDocumentGateway(extractor DocumentExtractor, holder *DocumentContext) *DocumentGateway {
	return &DocumentGateway{extractor: extractor, holder: holder}
}

// Extract fails with ErrUnsupportedFormat unless mimeHint names a PDF.
// Extraction failures wrap ErrServiceUnavailable; neither failure touches the
// stored context.
func (g *DocumentGateway) Extract(ctx context.Context, data []byte, mimeHint string) (string, error) {
	if !AcceptsFormat(mimeHint) {
		return "", ErrUnsupportedFormat
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	text, err := g.extractor.ExtractText(detach(ctx), data)
	if err != nil {
		return "", serviceError(err)
	}
	if err := g.holder.Set(text); err != nil {
		return "", err
	}
	stored, _ := g.holder.Get()
	return stored, nil
}

// AcceptsFormat reports whether mimeHint (parameters allowed) is a PDF.
func AcceptsFormat(mimeHint string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeHint)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, MIMEPDF)
}

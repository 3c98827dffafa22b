package normalisers

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/normalisers/html"
	"github.com/custodia-labs/studymate/internal/normalisers/pdf"
	"github.com/custodia-labs/studymate/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.Normaliser = (*Registry)(nil)

// Registry dispatches to the normaliser registered for a MIME type.
// It is itself a Normaliser.
type Registry struct {
	byMIME map[string]driven.Normaliser
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byMIME: make(map[string]driven.Normaliser)}
}

// Default returns a registry with the built-in normalisers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(html.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser for each of its MIME types.
// A later registration for the same type replaces the earlier one.
func (r *Registry) Register(n driven.Normaliser) {
	for _, mt := range n.SupportedMIMETypes() {
		if _, exists := r.byMIME[mt]; !exists {
			r.order = append(r.order, mt)
		}
		r.byMIME[mt] = n
	}
}

// Get returns the normaliser for a MIME type. Parameters such as
// "; charset=utf-8" are ignored.
func (r *Registry) Get(mimeType string) (driven.Normaliser, bool) {
	n, ok := r.byMIME[baseMIMEType(mimeType)]
	return n, ok
}

// SupportedMIMETypes returns all registered MIME types in registration order.
func (r *Registry) SupportedMIMETypes() []string {
	return append([]string(nil), r.order...)
}

// Normalise dispatches on raw.MIMEType.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	n, ok := r.Get(raw.MIMEType)
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

func baseMIMEType(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

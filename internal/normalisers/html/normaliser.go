// Package html extracts readable text from web pages.
package html

import (
	"context"
	"html"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Normalise converts a page into a single text document.
// The page URL is recorded as the document source, together with the
// title, description and declared language when the page has them.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) ([]domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)

	meta := copyMetadata(raw.Metadata)
	if raw.URI != "" {
		meta[domain.MetadataSource] = raw.URI
	}
	meta[domain.MetadataTitle] = extractHTMLTitle(rawContent, raw.URI)
	if lang := extractLanguage(rawContent); lang != "" {
		meta[domain.MetadataLanguage] = lang
	}
	if desc := extractDescription(rawContent); desc != "" {
		meta["description"] = desc
	}
	meta["mime_type"] = raw.MIMEType

	return []domain.Document{{
		ID:       uuid.New().String(),
		Content:  stripHTML(rawContent),
		Metadata: meta,
	}}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	htmlLang          = regexp.MustCompile(`(?is)<html[^>]*\slang\s*=\s*["']?([a-zA-Z-]+)`)
	metaDescription   = regexp.MustCompile(`(?is)<meta[^>]*name\s*=\s*["']description["'][^>]*content\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	lineBreaks        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t\x{00a0}]+`)
	paragraphBreaks   = regexp.MustCompile(`\n{2,}`)
)

// extractHTMLTitle returns the <title> text, falling back to the last URL path segment.
func extractHTMLTitle(content, uri string) string {
	if matches := titleTag.FindStringSubmatch(content); len(matches) > 1 {
		if title := strings.TrimSpace(html.UnescapeString(matches[1])); title != "" {
			return title
		}
	}

	name := path.Base(strings.TrimRight(uri, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

func extractLanguage(content string) string {
	if matches := htmlLang.FindStringSubmatch(content); len(matches) > 1 {
		return strings.ToLower(matches[1])
	}
	return ""
}

func extractDescription(content string) string {
	matches := metaDescription.FindStringSubmatch(content)
	if matches == nil {
		return ""
	}
	// One group per quote style; the other is empty.
	return strings.TrimSpace(html.UnescapeString(matches[1] + matches[2]))
}

// stripHTML removes markup and returns readable text.
// Block elements become paragraph breaks so the splitter can cut on them.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{titleTag, scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	content = openBlockElements.ReplaceAllString(content, "\n\n")
	content = blockElements.ReplaceAllString(content, "\n\n")
	content = lineBreaks.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	// Trim each line; runs of blank lines collapse to one paragraph break.
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = paragraphBreaks.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// copyMetadata creates a shallow copy of metadata, never nil.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+4)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

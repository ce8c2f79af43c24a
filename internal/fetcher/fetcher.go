package fetcher

import (
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

// Fetcher acquires document text from an HTTP(S) URL or a local file path.
// HTML responses are reduced to plain text before the pipeline sees them;
// non-text content fails rather than being partially processed.
type Fetcher struct {
	client *resty.Client
	log    *zap.Logger
}

func New(timeout time.Duration, log *zap.Logger) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		client: resty.New().SetTimeout(timeout),
		log:    log,
	}
}

// Fetch returns the document for source. A source without an http/https
// scheme is read from disk.
func (f *Fetcher) Fetch(ctx context.Context, source string) (domain.Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.fetchURL(ctx, source)
	}
	return f.readFile(source)
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) (domain.Document, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: fetching %s: %v", domain.ErrAcquisition, url, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return domain.Document{}, fmt.Errorf("%w: fetching %s: status %s", domain.ErrAcquisition, url, resp.Status())
	}

	contentType := resp.Header().Get("Content-Type")
	body := string(resp.Body())
	var text string
	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		text = stripHTML(body)
	case strings.HasPrefix(contentType, "text/"), contentType == "":
		text = body
	default:
		return domain.Document{}, fmt.Errorf("%w: %s returned non-text content type %q", domain.ErrAcquisition, url, contentType)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, fmt.Errorf("%w: %s returned no text content", domain.ErrAcquisition, url)
	}

	f.log.Debug("fetched document", zap.String("url", url), zap.Int("bytes", len(text)))
	return domain.Document{Source: url, Text: text}, nil
}

func (f *Fetcher) readFile(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: reading %s: %v", domain.ErrAcquisition, path, err)
	}
	text := string(data)
	if strings.HasSuffix(strings.ToLower(path), ".html") || strings.HasSuffix(strings.ToLower(path), ".htm") {
		text = stripHTML(text)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Document{}, fmt.Errorf("%w: %s is empty", domain.ErrAcquisition, path)
	}
	return domain.Document{Source: path, Text: text}, nil
}

var (
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	blockTagRe   = regexp.MustCompile(`(?i)</?(p|div|br|h[1-6]|li|ul|ol|tr|table|section|article|header|footer|blockquote|pre)[^>]*>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe     = regexp.MustCompile(`[ \t]+`)
)

// stripHTML reduces an HTML page to plain text: scripts and styles dropped,
// block-level tags become line breaks, remaining tags removed, entities
// unescaped, whitespace collapsed.
func stripHTML(s string) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = styleRe.ReplaceAllString(s, "")
	s = blockTagRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = spacesRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

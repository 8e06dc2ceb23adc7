package catalog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

// DefaultLibraryURL is the Ollama model library.
const DefaultLibraryURL = "https://ollama.com"

// The library site publishes no API; these selectors track its markup and
// may need updating when the site changes.
const (
	searchTitleSelector = "span[x-test-search-response-title]"
	tagRowSelector      = "div.group.px-4.py-3"
	tagLinkSelector     = `a[href^="/library/"]`
	legacyTitleSelector = "div.break-all.font-medium"
	legacyMetaSelector  = "div.items-baseline"
)

var (
	sizeRe    = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:TB|GB|MB|KB)\b`)
	contextRe = regexp.MustCompile(`\b(\d+(?:\.\d+)?[KM])\s+context`)
	updatedRe = regexp.MustCompile(`(?:\d+|an?)\s+(?:second|minute|hour|day|week|month|year)s?\s+ago|just now|yesterday`)
	hashRe    = regexp.MustCompile(`\b[0-9a-f]{12}\b`)
)

var knownModalities = []string{"Text", "Vision", "Audio"}

// LibraryClient scrapes the Ollama library website.
type LibraryClient struct {
	opts Options
	fetcher
}

// NewLibraryClient creates a LibraryClient. Options.BaseURL defaults to
// DefaultLibraryURL.
func NewLibraryClient(opts Options) *LibraryClient {
	opts = opts.withDefaults(DefaultLibraryURL)
	return &LibraryClient{
		opts:    opts,
		fetcher: fetcher{httpClient: opts.HTTPClient, log: opts.Logger},
	}
}

func (c *LibraryClient) Name() string { return "Ollama library" }

func (c *LibraryClient) Columns() []format.Column {
	return []format.Column{format.ColumnSize, format.ColumnContext, format.ColumnModalities, format.ColumnUpdated, format.ColumnHash}
}

func (c *LibraryClient) Identifier(entry string, row api.VariantRow) string {
	return entry + ":" + row.Title
}

// Reference returns the identifier itself: library identifiers are already "model:tag".
func (c *LibraryClient) Reference(entry, identifier string) string {
	return identifier
}

// Search lists models from the library search page.
func (c *LibraryClient) Search(ctx context.Context, query string) ([]api.CatalogEntry, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if c.opts.Multimodal {
		params.Set("c", "vision")
	}
	u := c.opts.BaseURL + "/search"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	doc, err := c.document(ctx, u, false)
	if err != nil {
		return nil, err
	}

	var entries []api.CatalogEntry
	seen := map[string]bool{}
	doc.Find(searchTitleSelector).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		entries = append(entries, api.CatalogEntry{Name: name})
	})

	c.log.Debug().Str("query", query).Int("entries", len(entries)).Msg("library search")
	return entries, nil
}

// ListVariants lists the tags of one library model.
func (c *LibraryClient) ListVariants(ctx context.Context, entry string) ([]api.VariantRow, error) {
	u := fmt.Sprintf("%s/library/%s/tags", c.opts.BaseURL, url.PathEscape(entry))
	doc, err := c.document(ctx, u, true)
	if err != nil {
		return nil, err
	}

	var rows []api.VariantRow
	seen := map[string]bool{}
	add := func(row api.VariantRow, ok bool) {
		if !ok || seen[row.Title] {
			return
		}
		seen[row.Title] = true
		rows = append(rows, row)
	}

	doc.Find(tagRowSelector).Each(func(_ int, s *goquery.Selection) {
		add(parseTagRow(s))
	})

	// Older markup: a title block followed by a "hash • size • age" line.
	if len(rows) == 0 {
		doc.Find(legacyTitleSelector).Each(func(_ int, s *goquery.Selection) {
			meta := s.Parent().Find(legacyMetaSelector).First().Text()
			add(parseTagText(strings.TrimSpace(s.Text()), meta))
		})
	}

	c.log.Debug().Str("model", entry).Int("tags", len(rows)).Msg("library tags")
	return rows, nil
}

func (c *LibraryClient) document(ctx context.Context, u string, notFound bool) (*goquery.Document, error) {
	body, err := c.get(ctx, u, "text/html", notFound)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUpstreamUnavailable, u, err)
	}
	return doc, nil
}

func parseTagRow(s *goquery.Selection) (api.VariantRow, bool) {
	name := strings.TrimSpace(s.Find(tagLinkSelector).First().Text())
	if name == "" {
		name, _ = s.Find("input[value]").First().Attr("value")
	}
	if name == "" {
		name = strings.TrimSpace(s.Find(legacyTitleSelector).First().Text())
	}
	return parseTagText(name, s.Text())
}

// parseTagText builds a row from a tag name and the free text around it.
// Every field that cannot be found is left empty.
func parseTagText(name, meta string) (api.VariantRow, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.VariantRow{}, false
	}
	tag := "latest"
	if i := strings.LastIndex(name, ":"); i >= 0 && i < len(name)-1 {
		tag = name[i+1:]
	}
	if strings.ContainsAny(tag, " \t\n") {
		return api.VariantRow{}, false
	}

	text := strings.Join(strings.Fields(meta), " ")
	row := api.VariantRow{
		Title:   tag,
		Size:    sizeRe.FindString(text),
		Updated: updatedRe.FindString(text),
		Hash:    hashRe.FindString(text),
	}
	if m := contextRe.FindStringSubmatch(text); m != nil {
		row.ContextWindow = m[1]
	}
	row.Modalities = modalities(text)
	return row, true
}

func modalities(text string) []string {
	words := map[string]bool{}
	for _, w := range strings.Fields(text) {
		words[strings.Trim(w, "·•,;|()")] = true
	}
	var found []string
	for _, m := range knownModalities {
		if words[m] {
			found = append(found, m)
		}
	}
	return found
}

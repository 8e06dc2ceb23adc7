package catalog

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

// DefaultHubURL is the Hugging Face hub.
const DefaultHubURL = "https://huggingface.co"

// HubNamespace prefixes hub references so the daemon fetches from Hugging Face.
const HubNamespace = "hf.co/"

const (
	hubArtifactFilter = "gguf"
	hubArtifactExt    = ".gguf"
	pipelineText      = "text-generation"
	pipelineVision    = "image-text-to-text"
)

// splitShardRe matches the suffix of one part of a split GGUF file.
var splitShardRe = regexp.MustCompile(`(?i)-\d{5}-of-\d{5}\.gguf$`)

// projectorPrefix marks multimodal projector files, which ship beside the
// model weights and are not a variant of their own.
const projectorPrefix = "mmproj"

type hubModel struct {
	ID      string `json:"id"`
	ModelID string `json:"modelId"`
}

type hubModelInfo struct {
	LastModified string `json:"lastModified"`
	Siblings     []struct {
		Filename string `json:"rfilename"`
		Size     int64  `json:"size"`
	} `json:"siblings"`
}

// HubClient lists GGUF repositories from the Hugging Face API.
type HubClient struct {
	opts Options
	fetcher
}

// NewHubClient creates a HubClient. Options.BaseURL defaults to DefaultHubURL.
func NewHubClient(opts Options) *HubClient {
	opts = opts.withDefaults(DefaultHubURL)
	return &HubClient{
		opts:    opts,
		fetcher: fetcher{httpClient: opts.HTTPClient, log: opts.Logger},
	}
}

func (c *HubClient) Name() string { return "Hugging Face" }

func (c *HubClient) Columns() []format.Column {
	return []format.Column{format.ColumnSize, format.ColumnUpdated}
}

func (c *HubClient) Identifier(_ string, row api.VariantRow) string {
	return row.Title
}

// Reference combines the repository name with the chosen quantization, e.g.
// "hf.co/bartowski/Llama-3.2-1B-Instruct-GGUF:Q4_K_M".
func (c *HubClient) Reference(entry, identifier string) string {
	return HubNamespace + entry + ":" + identifier
}

// Search lists GGUF repositories matching query, most downloaded first.
func (c *HubClient) Search(ctx context.Context, query string) ([]api.CatalogEntry, error) {
	pipeline := pipelineText
	if c.opts.Multimodal {
		pipeline = pipelineVision
	}
	params := url.Values{
		"filter":       {hubArtifactFilter},
		"sort":         {"downloads"},
		"direction":    {"-1"},
		"limit":        {strconv.Itoa(c.opts.Limit)},
		"full":         {"false"},
		"config":       {"false"},
		"search":       {query},
		"pipeline_tag": {pipeline},
	}

	var models []hubModel
	if err := c.getJSON(ctx, c.opts.BaseURL+"/api/models?"+params.Encode(), false, &models); err != nil {
		return nil, err
	}

	entries := make([]api.CatalogEntry, 0, len(models))
	for _, m := range models {
		name := m.ModelID
		if name == "" {
			name = m.ID
		}
		if name == "" {
			continue
		}
		entries = append(entries, api.CatalogEntry{Name: name})
	}

	c.log.Debug().Str("query", query).Str("pipeline", pipeline).Int("entries", len(entries)).Msg("hub search")
	return entries, nil
}

// ListVariants lists one row per quantization found among the repository's
// GGUF files. Files without a recognizable quantization and projector files
// are dropped. Parts of one split GGUF are merged and their sizes summed;
// any other file repeating a quantization keeps the first row.
func (c *HubClient) ListVariants(ctx context.Context, entry string) ([]api.VariantRow, error) {
	u := fmt.Sprintf("%s/api/models/%s?blobs=true", c.opts.BaseURL, escapeRepo(entry))

	var info hubModelInfo
	if err := c.getJSON(ctx, u, true, &info); err != nil {
		return nil, err
	}

	updated := HumanizeString(info.LastModified, c.opts.Now())

	type variant struct {
		size  int64
		split bool
	}
	var (
		order    []string
		variants = map[string]*variant{}
	)
	for _, f := range info.Siblings {
		if !strings.HasSuffix(strings.ToLower(f.Filename), hubArtifactExt) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(path.Base(f.Filename)), projectorPrefix) {
			c.log.Debug().Str("model", entry).Str("file", f.Filename).Msg("projector file, skipping")
			continue
		}
		quant, ok := ExtractQuantization(f.Filename)
		if !ok {
			// TODO: surface these in an "unresolved" bucket instead of dropping them.
			c.log.Debug().Str("model", entry).Str("file", f.Filename).Msg("no quantization in filename, skipping")
			continue
		}

		split := splitShardRe.MatchString(f.Filename)
		v, dup := variants[quant]
		switch {
		case !dup:
			variants[quant] = &variant{size: f.Size, split: split}
			order = append(order, quant)
		case split && v.split:
			v.size += f.Size
		default:
			c.log.Debug().Str("model", entry).Str("file", f.Filename).Str("quantization", quant).Msg("duplicate quantization, keeping first file")
		}
	}

	rows := make([]api.VariantRow, 0, len(order))
	for _, quant := range order {
		size := variants[quant].size
		rows = append(rows, api.VariantRow{
			Title:     quant,
			Size:      format.Bytes(size),
			SizeBytes: size,
			Updated:   updated,
		})
	}

	c.log.Debug().Str("model", entry).Int("files", len(info.Siblings)).Int("quantizations", len(rows)).Msg("hub files")
	return rows, nil
}

// escapeRepo escapes each segment of an "owner/name" repository id.
func escapeRepo(repo string) string {
	parts := strings.Split(repo, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

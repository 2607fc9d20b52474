package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/sells-group/brand-insights/internal/urlutil"
)

const claudeMaxTokens = 1024

// messenger is the slice of the Anthropic SDK the discoverer needs; tests
// substitute a fake.
type messenger interface {
	newMessage(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error)
}

type sdkMessenger struct {
	client sdk.Client
}

func (m *sdkMessenger) newMessage(ctx context.Context, params sdk.MessageNewParams) (*sdk.Message, error) {
	return m.client.Messages.New(ctx, params)
}

// claudeDiscoverer asks Claude for competitor homepage URLs as a JSON array.
type claudeDiscoverer struct {
	messenger messenger
	model     string
}

func newClaudeDiscoverer(apiKey, model string) *claudeDiscoverer {
	return &claudeDiscoverer{
		messenger: &sdkMessenger{
			client: sdk.NewClient(option.WithAPIKey(apiKey)),
		},
		model: model,
	}
}

func (d *claudeDiscoverer) Discover(ctx context.Context, siteURL string, limit int) []string {
	domain := urlutil.Domain(siteURL)
	if domain == "" {
		return nil
	}

	prompt := fmt.Sprintf(
		"List up to %d direct competitors of the online store at %s. "+
			"Respond with only a JSON array of competitor homepage URLs, nothing else.",
		limit*2, domain)

	msg, err := d.messenger.newMessage(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(d.model),
		MaxTokens: claudeMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		zap.L().Warn("discovery: claude request failed", zap.String("domain", domain), zap.Error(err))
		return nil
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	raw := parseURLArray(text.String())
	return filterCandidates(siteURL, raw, limit)
}

// parseURLArray extracts a JSON string array from model output, tolerating
// surrounding prose and markdown code fences.
func parseURLArray(text string) []string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if end := strings.LastIndex(text, "```"); end >= 0 {
			text = text[:end]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &urls); err != nil {
		zap.L().Debug("discovery: unparsable claude response", zap.Error(err))
		return nil
	}
	return urls
}

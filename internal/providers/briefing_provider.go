package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"chronorise/internal/structures"

	json "github.com/goccy/go-json"
)

// BriefingInterface produces the short wake-up message shown while an alarm
// rings. Generate may be slow or fail; callers substitute Fallback and never
// block the ringing flow on it.
type BriefingInterface interface {
	Enabled() bool
	Generate(ctx context.Context, label, timeStr string) (string, error)
	Fallback(label, timeStr string) string
}

type GeminiBriefingProvider struct {
	conf   *structures.Config
	logger Logger
	client *http.Client
}

func NewBriefingProvider(conf *structures.Config, logger Logger) BriefingInterface {
	if !conf.Briefing.Enabled || conf.Briefing.APIKey == "" {
		logger.Infof(TypeApp, "Briefing generation disabled, using templated messages")
	}
	return &GeminiBriefingProvider{
		conf:   conf,
		logger: logger,
		client: &http.Client{Timeout: conf.Briefing.Timeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiBriefingProvider) Enabled() bool {
	return g.conf.Briefing.Enabled && g.conf.Briefing.APIKey != ""
}

func (g *GeminiBriefingProvider) Generate(ctx context.Context, label, timeStr string) (string, error) {
	if !g.Enabled() {
		return fmt.Sprintf("Good morning! It's %s. Time to %s!", timeStr, wakeGoal(label)), nil
	}

	prompt := fmt.Sprintf(`You are a smart alarm assistant.
The user just woke up at %s.
The alarm label is %q.

Write a very short (max 2 sentences), energetic, and motivating wake-up message related to the label.
If the label is generic (like "Alarm"), just be generally positive.
Do not use quotes. Just the text.`, timeStr, label)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimSuffix(g.conf.Briefing.BaseURL, "/"), g.conf.Briefing.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.conf.Briefing.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("briefing request returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		if text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text); text != "" {
			return text, nil
		}
	}
	return fmt.Sprintf("Rise and shine! It's %s.", timeStr), nil
}

func (g *GeminiBriefingProvider) Fallback(_, timeStr string) string {
	return fmt.Sprintf("Good morning! It's %s. Let's get moving!", timeStr)
}

func wakeGoal(label string) string {
	if label == "" {
		return "wake up"
	}
	return label
}

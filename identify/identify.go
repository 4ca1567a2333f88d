// Package identify names the food inside each box by asking an Ollama
// vision model about the cropped region.
package identify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ollama/ollama/api"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/roi"
)

const (
	DefaultModel       = "llava"
	DefaultConcurrency = 3
	defaultMaxDim      = 768
	defaultTimeout     = 120 * time.Second
)

// DefaultPrompt asks for a single JSON object per crop.
const DefaultPrompt = `Identify the food in this image. Reply with JSON only, ` +
	`exactly {"name": "<short food name>", "calories": <estimated kcal as an integer>}.`

// Chatter is the part of the Ollama API client that Client uses.
type Chatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Result is one model answer.
type Result struct {
	Name     string
	Calories *int
}

// Client identifies boxes with an Ollama vision model.
type Client struct {
	chat        Chatter
	Model       string
	Prompt      string
	Concurrency int
	MaxDim      int
}

// NewClient creates a Client for the Ollama server at rawURL. Any path on
// the URL (such as /api/chat) is ignored.
func NewClient(rawURL, model string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("identify: invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("identify: invalid URL %q", rawURL)
	}
	base := &url.URL{Scheme: u.Scheme, Host: u.Host}
	return NewWithChatter(api.NewClient(base, http.DefaultClient), model), nil
}

// NewWithChatter creates a Client over an existing chat implementation.
func NewWithChatter(chat Chatter, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		chat:        chat,
		Model:       model,
		Prompt:      DefaultPrompt,
		Concurrency: DefaultConcurrency,
		MaxDim:      defaultMaxDim,
	}
}

// Identify returns a copy of boxes with Name and Calories filled in from
// the model. Boxes that cover no pixels are returned unchanged. The first
// failed request cancels the rest and its error is returned.
func (c *Client) Identify(ctx context.Context, img image.Image, boxes []roi.Box) ([]roi.Box, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	out := make([]roi.Box, len(boxes))
	copy(out, boxes)

	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i := range out {
		crop, err := roi.CropBox(img, out[i].BoundingBox)
		if errors.Is(err, roi.ErrEmptyCrop) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("identify box %s: %w", out[i].ID, err)
		}
		g.Go(func() error {
			res, err := c.identifyImage(gctx, crop)
			if err != nil {
				return fmt.Errorf("identify box %s: %w", out[i].ID, err)
			}
			out[i].Name = res.Name
			out[i].Calories = res.Calories
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge copies Name and Calories from identified onto the boxes of current
// with the same id. Boxes missing from current stay dropped and boxes
// missing from identified are returned unchanged.
func Merge(current, identified []roi.Box) []roi.Box {
	byID := make(map[string]roi.Box, len(identified))
	for _, b := range identified {
		byID[b.ID] = b
	}
	out := make([]roi.Box, len(current))
	for i, b := range current {
		if res, ok := byID[b.ID]; ok {
			b.Name = res.Name
			b.Calories = res.Calories
		}
		out[i] = b
	}
	return out
}

// identifyImage sends one crop to the model and parses the answer.
func (c *Client) identifyImage(ctx context.Context, crop image.Image) (Result, error) {
	if c.MaxDim > 0 {
		b := crop.Bounds()
		if b.Dx() > c.MaxDim || b.Dy() > c.MaxDim {
			crop = imaging.Fit(crop, c.MaxDim, c.MaxDim, imaging.Lanczos)
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, crop, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return Result{}, fmt.Errorf("encode crop: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.Model,
		Messages: []api.Message{{
			Role:    "user",
			Content: c.Prompt,
			Images:  []api.ImageData{api.ImageData(buf.Bytes())},
		}},
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var content strings.Builder
	err := c.chat.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("ollama chat: %w", err)
	}
	return ParseResult(content.String())
}

// ParseResult extracts a Result from a model reply, tolerating code fences,
// comments, trailing commas and prose around the JSON object. Fractional
// calories are rounded.
func ParseResult(raw string) (Result, error) {
	cleaned := sanitizeModelJSON(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return Result{}, fmt.Errorf("no JSON object in model reply %q", truncate(raw, 80))
	}

	var wire struct {
		Name     string   `json:"name"`
		Calories *float64 `json:"calories"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return Result{}, fmt.Errorf("parse model reply: %w", err)
	}
	name := strings.TrimSpace(wire.Name)
	if name == "" {
		return Result{}, errors.New("model reply has no name")
	}

	res := Result{Name: name}
	if wire.Calories != nil && *wire.Calories >= 0 {
		kcal := int(math.Round(*wire.Calories))
		res.Calories = &kcal
	}
	return res, nil
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reInlineComment = regexp.MustCompile(`(?m)//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// sanitizeModelJSON strips the decoration models put around JSON.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.Trim(strings.TrimSpace(raw), "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reInlineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/disintegration/imaging"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

const transcribePrompt = `You are an OCR engine. Transcribe every piece of legible text in the image exactly as written, preserving line breaks and reading order.

Output constraints:
- Respond with the transcribed text only, no commentary and no markdown fencing
- Keep the original language of the text; do not translate
- When the image contains no legible text, respond with an empty message`

type visionAgent struct {
	agent        agent.Agent
	maxDimension int
	logger       *slog.Logger
}

func newVisionAgent(agentCfg *gaconfig.AgentConfig, cfg *Config, logger *slog.Logger) (*visionAgent, error) {
	a, err := agent.New(agentCfg)
	if err != nil {
		return nil, fmt.Errorf("create vision agent: %w", err)
	}

	return &visionAgent{
		agent:        a,
		maxDimension: cfg.MaxDimension,
		logger:       logger,
	}, nil
}

func (v *visionAgent) Provider() string {
	return ProviderAgent
}

func (v *visionAgent) Start(lc *lifecycle.Coordinator) error {
	v.logger.Info("starting ocr system")
	return nil
}

// Close is a no-op; the agent's HTTP client holds no resources that
// outlive a request.
func (v *visionAgent) Close() error {
	return nil
}

func (v *visionAgent) Extract(ctx context.Context, image []byte) (string, error) {
	png, err := normalizeImage(image, v.maxDimension)
	if err != nil {
		return "", err
	}

	dataURI, err := encoding.EncodeImageDataURI(png, document.PNG)
	if err != nil {
		return "", fmt.Errorf("%w: encode image: %w", ErrExtraction, err)
	}

	resp, err := v.agent.Vision(ctx, transcribePrompt, []string{dataURI})
	if err != nil {
		return "", fmt.Errorf("%w: vision call: %w", ErrExtraction, err)
	}

	return strings.TrimSpace(resp.Content()), nil
}

// normalizeImage decodes any supported format, shrinks it to fit within
// maxDimension on its longest edge, and re-encodes it as PNG.
func normalizeImage(data []byte, maxDimension int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	b := img.Bounds()
	if b.Dx() > maxDimension || b.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", ErrDecode, err)
	}

	return buf.Bytes(), nil
}

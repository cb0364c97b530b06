package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/card-scanner/internal/common"
)

// DefaultEndpoint is the hosted OCR service the client talks to by default.
const DefaultEndpoint = "https://api.optiic.dev/ocr"

type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client recognizes text by posting base64 images to an HTTP OCR service.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	schema   *jsonschema.Schema
	logger   *slog.Logger
}

// StatusError is an upstream failure carrying the service's HTTP status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ocr service error: status %d", e.Status)
	}
	return fmt.Sprintf("ocr service error: status %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return common.ErrOCR }

func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "missing OCR API key", common.ErrInvalidInput)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	schema, err := compileResponseSchema()
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     httpClient,
		schema:   schema,
		logger:   logger,
	}, nil
}

type recognizeRequest struct {
	Image string `json:"image"`
}

type recognizeResponse struct {
	Text       *string  `json:"text"`
	OCR        *string  `json:"ocr"`
	Result     *string  `json:"result"`
	Confidence *float32 `json:"confidence"`
	Data       *struct {
		Text *string `json:"text"`
	} `json:"data"`
}

// pick returns the first present text field in service preference order.
func (r recognizeResponse) pick() string {
	for _, s := range []*string{r.Text, r.OCR, r.Result} {
		if s != nil && *s != "" {
			return *s
		}
	}
	if r.Data != nil && r.Data.Text != nil {
		return *r.Data.Text
	}
	return ""
}

// Recognize sends image bytes to the service and returns the recognized text
// with the service's confidence in 0..1, or 0 when it reports none.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, float32, error) {
	if len(image) == 0 {
		return "", 0, common.NewAppError("OCR_INPUT", "image required", common.ErrInvalidInput)
	}
	body := recognizeRequest{Image: base64.StdEncoding.EncodeToString(image)}
	raw, status, err := sendJSON(ctx, c.http, c.endpoint, body, map[string]string{"x-api-key": c.apiKey}, c.logger)
	if err != nil {
		if status != 0 {
			return "", 0, &StatusError{Status: status, Body: truncate(strings.TrimSpace(string(raw)), 512)}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", 0, ctxErr
		}
		return "", 0, fmt.Errorf("%w: %w", common.ErrOCR, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", 0, fmt.Errorf("%w: decode response: %w", common.ErrOCR, err)
	}
	if err := c.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			c.logger.Warn("ocr.remote.schema_mismatch", "error", ve.Error())
		}
		return "", 0, fmt.Errorf("%w: unexpected response shape: %w", common.ErrOCR, err)
	}

	var resp recognizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", 0, fmt.Errorf("%w: decode response: %w", common.ErrOCR, err)
	}
	conf := float32(0)
	if resp.Confidence != nil {
		conf = *resp.Confidence
		if conf > 1 {
			conf /= 100
		}
	}
	return resp.pick(), conf, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

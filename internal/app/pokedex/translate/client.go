package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"pokedex.local/internal/platform/metrics"
)

// errNoTranslation 表示上游没有给出可用的译文（非 2xx、格式错误、译文为空）
var errNoTranslation = errors.New("no translation")

type translationRequest struct {
	Text string `json:"text"`
}

// translationResponse 只解码用到的 contents.translated，其余字段忽略
type translationResponse struct {
	Contents *struct {
		Translated string `json:"translated"`
	} `json:"contents"`
}

// Client 调用翻译 API：POST {baseURL}{style}.json，body 为 {"text": "..."}
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// Translate 返回 style 对应的译文。
// 上游拒绝或返回无法使用的内容时返回 errNoTranslation；其余为传输错误。
func (c *Client) Translate(ctx context.Context, style, text string) (string, error) {
	body, err := json.Marshal(translationRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+style+".json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(style, "error").Inc()
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(style, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", errNoTranslation, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out translationResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: %v", errNoTranslation, err)
	}
	if out.Contents == nil || out.Contents.Translated == "" {
		return "", fmt.Errorf("%w: empty contents", errNoTranslation)
	}
	return out.Contents.Translated, nil
}

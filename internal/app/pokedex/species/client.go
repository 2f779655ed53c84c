package species

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/platform/metrics"
)

// UnexpectedFormatMessage 是 2xx 响应体无法解析时返回的消息。
// 此时状态码仍为 200，调用方需要看 Success 判断成败。
const UnexpectedFormatMessage = "Response content was in an unexpected format"

const upstreamName = "species"

// Client 访问物种数据 API（GET pokemon-species/{name}），实现 pokedex.SpeciesService。
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient baseURL 形如 https://pokeapi.co/api/v2/；httpClient 为 nil 时使用带 otelhttp 的默认 client。
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) FetchRecord(ctx context.Context, name string) (pokedex.Outcome, error) {
	if err := pokedex.RequireName(name); err != nil {
		return pokedex.Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"pokemon-species/"+url.PathEscape(name), nil)
	if err != nil {
		return pokedex.Outcome{}, fmt.Errorf("species %q: create request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(upstreamName, "error").Inc()
		return pokedex.Outcome{}, fmt.Errorf("species %q: do request: %w", name, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(upstreamName, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Debug("species: upstream rejected lookup", "name", name, "status", resp.StatusCode)
		return pokedex.Failed(resp.StatusCode, fmt.Sprintf(
			"could not get data from species api, response indicates error: %d %s",
			resp.StatusCode, http.StatusText(resp.StatusCode))), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pokedex.Outcome{}, fmt.Errorf("species %q: read response: %w", name, err)
	}

	var data *speciesData
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		slog.Warn("species: unexpected response format", "name", name, "err", err)
		return pokedex.Failed(http.StatusOK, UnexpectedFormatMessage), nil
	}

	info := &pokedex.Info{
		Name:        data.Name,
		Description: data.englishFlavorText(),
		Habitat:     data.habitat(),
		IsLegendary: data.IsLegendary != nil && *data.IsLegendary,
	}
	return pokedex.Succeeded(info), nil
}

var _ pokedex.SpeciesService = (*Client)(nil)

package imagesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kostas2370/Video-Creator/internal/config"
)

const (
	defaultBingBaseURL   = "https://api.bing.microsoft.com/v7.0/images/search"
	defaultGoogleBaseURL = "https://www.googleapis.com/customsearch/v1"
)

// Bing Bing 图片搜索提供者
type Bing struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// newBing 创建 Bing 提供者
func newBing(cfg *config.ImageConfig) (Provider, error) {
	if cfg.Bing.APIKey == "" {
		return nil, fmt.Errorf("bing api key is required")
	}
	baseURL := cfg.Bing.BaseURL
	if baseURL == "" {
		baseURL = defaultBingBaseURL
	}
	return &Bing{
		apiKey:     cfg.Bing.APIKey,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Fetch 搜索并下载首个匹配图片
func (b *Bing) Fetch(ctx context.Context, req Request) (string, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("count", "1")
	q.Set("safeSearch", "Moderate")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("bing search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bing search failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Value []struct {
			ContentURL string `json:"contentUrl"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Value) == 0 {
		return "", fmt.Errorf("no image result for query %q", req.Query)
	}

	return downloadFile(ctx, b.httpClient, result.Value[0].ContentURL, req.Dir)
}

// Google Google 自定义搜索图片提供者
type Google struct {
	apiKey     string
	searchCX   string
	baseURL    string
	httpClient *http.Client
}

// newGoogle 创建 Google 提供者
func newGoogle(cfg *config.ImageConfig) (Provider, error) {
	if cfg.Google.APIKey == "" || cfg.Google.SearchCX == "" {
		return nil, fmt.Errorf("google api key and search cx are required")
	}
	baseURL := cfg.Google.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &Google{
		apiKey:     cfg.Google.APIKey,
		searchCX:   cfg.Google.SearchCX,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Fetch 搜索并下载首个匹配图片
func (g *Google) Fetch(ctx context.Context, req Request) (string, error) {
	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("cx", g.searchCX)
	q.Set("q", req.Query)
	q.Set("searchType", "image")
	q.Set("num", "1")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("google search failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Items) == 0 {
		return "", fmt.Errorf("no image result for query %q", req.Query)
	}

	return downloadFile(ctx, g.httpClient, result.Items[0].Link, req.Dir)
}

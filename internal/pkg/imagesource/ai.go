package imagesource

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/pkg/t2p"
)

const (
	defaultDallEBaseURL     = "https://api.openai.com"
	defaultDiffusionBaseURL = "https://api.stability.ai"
)

// DallE OpenAI 图片生成提供者
type DallE struct {
	apiKey     string
	baseURL    string
	model      string
	size       string
	httpClient *http.Client
}

// newDallE 创建 DALL-E 提供者
func newDallE(cfg *config.ImageConfig) (Provider, error) {
	if cfg.DallE.APIKey == "" {
		return nil, fmt.Errorf("dall-e api key is required")
	}
	baseURL := cfg.DallE.BaseURL
	if baseURL == "" {
		baseURL = defaultDallEBaseURL
	}
	model := cfg.DallE.Model
	if model == "" {
		model = "dall-e-3"
	}
	size := cfg.DallE.Size
	if size == "" {
		size = "1024x1024"
	}
	return &DallE{
		apiKey:     cfg.DallE.APIKey,
		baseURL:    baseURL,
		model:      model,
		size:       size,
		httpClient: newHTTPClient(),
	}, nil
}

// Fetch 生成图片并下载落盘
func (d *DallE) Fetch(ctx context.Context, req Request) (string, error) {
	payload := map[string]interface{}{
		"model":  d.model,
		"prompt": req.Prompt(),
		"n":      1,
		"size":   d.size,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("dall-e generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("dall-e failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", fmt.Errorf("no image in dall-e response")
	}

	return downloadFile(ctx, d.httpClient, result.Data[0].URL, req.Dir)
}

// Diffusion Stability AI 图片生成提供者
type Diffusion struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// newDiffusion 创建 Stable Diffusion 提供者
func newDiffusion(cfg *config.ImageConfig) (Provider, error) {
	if cfg.Diffusion.APIKey == "" {
		return nil, fmt.Errorf("stable diffusion api key is required")
	}
	baseURL := cfg.Diffusion.BaseURL
	if baseURL == "" {
		baseURL = defaultDiffusionBaseURL
	}
	return &Diffusion{
		apiKey:     cfg.Diffusion.APIKey,
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Fetch 生成图片并落盘
func (d *Diffusion) Fetch(ctx context.Context, req Request) (string, error) {
	payload := map[string]interface{}{
		"text_prompts": []map[string]interface{}{
			{"text": req.Prompt()},
		},
		"cfg_scale": 7,
		"samples":   1,
		"steps":     30,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := d.baseURL + "/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("diffusion generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("diffusion failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Artifacts []struct {
			Base64 string `json:"base64"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Artifacts) == 0 {
		return "", fmt.Errorf("no image in diffusion response")
	}

	data, err := base64.StdEncoding.DecodeString(result.Artifacts[0].Base64)
	if err != nil {
		return "", fmt.Errorf("decode image data: %w", err)
	}

	path := imagePath(req.Dir, ".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path, nil
}

// Midjourney Midjourney 代理提供者
// 走 imagine/fetch 轮询代理协议
type Midjourney struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// newMidjourney 创建 Midjourney 提供者
func newMidjourney(cfg *config.ImageConfig) (Provider, error) {
	if cfg.Midjourney.APIKey == "" || cfg.Midjourney.BaseURL == "" {
		return nil, fmt.Errorf("midjourney api key and base url are required")
	}
	return &Midjourney{
		apiKey:     cfg.Midjourney.APIKey,
		baseURL:    cfg.Midjourney.BaseURL,
		httpClient: newHTTPClient(),
	}, nil
}

// Fetch 生成图片并下载落盘
func (m *Midjourney) Fetch(ctx context.Context, req Request) (string, error) {
	payload := map[string]interface{}{
		"prompt": req.Prompt(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/imagine", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("midjourney imagine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("midjourney failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.ImageURL == "" {
		return "", fmt.Errorf("no image in midjourney response")
	}

	return downloadFile(ctx, m.httpClient, result.ImageURL, req.Dir)
}

// VolcImage 火山引擎文生图提供者
type VolcImage struct {
	client *t2p.Client
}

// newVolc 创建火山引擎提供者
func newVolc(cfg *config.ImageConfig) (Provider, error) {
	client, err := t2p.NewClient(t2p.NewConfig(&cfg.Volc))
	if err != nil {
		return nil, err
	}
	return &VolcImage{client: client}, nil
}

// Fetch 生成图片并落盘
func (v *VolcImage) Fetch(ctx context.Context, req Request) (string, error) {
	data, err := v.client.GenerateImageSimple(ctx, req.Prompt())
	if err != nil {
		return "", fmt.Errorf("volc generate: %w", err)
	}

	path := imagePath(req.Dir, ".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path, nil
}

package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kostas2370/Video-Creator/internal/config"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAI OpenAI 语音合成客户端（tts-1）
type OpenAI struct {
	apiKey     string
	baseURL    string
	model      string
	voice      string
	httpClient *http.Client
}

// newOpenAI 创建 OpenAI 合成器
// voiceID 非空时覆盖配置中的默认音色
func newOpenAI(cfg *config.TTSConfig, voiceID string) (Synthesizer, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	baseURL := cfg.OpenAI.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.OpenAI.Model
	if model == "" {
		model = "tts-1"
	}
	voice := voiceID
	if voice == "" {
		voice = cfg.OpenAI.Voice
	}
	if voice == "" {
		voice = "alloy"
	}
	return &OpenAI{
		apiKey:  cfg.OpenAI.APIKey,
		baseURL: baseURL,
		model:   model,
		voice:   voice,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Synthesize 合成语音并写入文件
func (c *OpenAI) Synthesize(ctx context.Context, text, savePath string) error {
	payload := map[string]interface{}{
		"model":           c.model,
		"voice":           c.voice,
		"input":           text,
		"response_format": "wav",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai tts failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	file, err := os.Create(savePath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(savePath)
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

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

	"github.com/rs/zerolog/log"

	"github.com/kostas2370/Video-Creator/internal/config"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabs ElevenLabs 合成客户端
type ElevenLabs struct {
	apiKey     string
	baseURL    string
	voiceID    string
	httpClient *http.Client
}

// newElevenLabs 创建 ElevenLabs 合成器
func newElevenLabs(cfg *config.TTSConfig, voiceID string) (Synthesizer, error) {
	return NewElevenLabs(&cfg.ElevenLabs, voiceID)
}

// NewElevenLabs 创建 ElevenLabs 客户端
func NewElevenLabs(cfg *config.ElevenLabsConfig, voiceID string) (*ElevenLabs, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultElevenLabsBaseURL
	}
	return &ElevenLabs{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		voiceID: voiceID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Synthesize 合成语音并写入文件
func (c *ElevenLabs) Synthesize(ctx context.Context, text, savePath string) error {
	payload := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("elevenlabs request failed: status %d, body: %s", resp.StatusCode, string(respBody))
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

	log.Debug().
		Str("voice_id", c.voiceID).
		Str("path", savePath).
		Msg("elevenlabs 合成完成")

	return nil
}

// Voice ElevenLabs 音色信息
type Voice struct {
	VoiceID    string            `json:"voice_id"`
	Name       string            `json:"name"`
	PreviewURL string            `json:"preview_url"`
	Labels     map[string]string `json:"labels"`
}

// Voices 列出账号下可用的音色
func (c *ElevenLabs) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs voices failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Voices, nil
}

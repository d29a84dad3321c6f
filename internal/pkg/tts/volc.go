package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
)

const defaultVolcBaseURL = "https://openspeech.bytedance.com/api/v1/tts"

// Volc 火山引擎 openspeech 合成客户端
// 参考: https://openspeech.bytedance.com/api/v1/tts
type Volc struct {
	apiURL      string
	accessToken string
	appID       string
	cluster     string
	voiceType   string
	httpClient  *http.Client
}

// newVolc 创建火山引擎合成器
// voiceID 非空时覆盖配置中的默认音色
func newVolc(cfg *config.TTSConfig, voiceID string) (Synthesizer, error) {
	if cfg.Volc.AccessToken == "" {
		return nil, fmt.Errorf("volc tts access token is required")
	}
	apiURL := cfg.Volc.BaseURL
	if apiURL == "" {
		apiURL = defaultVolcBaseURL
	}
	cluster := cfg.Volc.Cluster
	if cluster == "" {
		cluster = "volcano_tts"
	}
	voiceType := voiceID
	if voiceType == "" {
		voiceType = cfg.Volc.VoiceType
	}
	if voiceType == "" {
		voiceType = "BV115_streaming"
	}
	return &Volc{
		apiURL:      apiURL,
		accessToken: cfg.Volc.AccessToken,
		appID:       cfg.Volc.AppID,
		cluster:     cluster,
		voiceType:   voiceType,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Synthesize 合成语音并写入文件
func (c *Volc) Synthesize(ctx context.Context, text, savePath string) error {
	requestID := id.New()
	reqBody, err := json.Marshal(c.buildRequest(text, requestID))
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer; %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("request_id", requestID).
		Str("voice_type", c.voiceType).
		Msg("sending volc tts request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("volc tts failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Code    float64 `json:"code"`
		Message string  `json:"message"`
		Data    string  `json:"data"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if apiResp.Code != 3000 {
		return fmt.Errorf("volc tts error: %s (code: %.0f)", apiResp.Message, apiResp.Code)
	}
	if apiResp.Data == "" {
		return fmt.Errorf("audio data not found in response")
	}

	audioData, err := base64.StdEncoding.DecodeString(apiResp.Data)
	if err != nil {
		return fmt.Errorf("decode audio data: %w", err)
	}

	if err := os.WriteFile(savePath, audioData, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}

// buildRequest 构建请求体
func (c *Volc) buildRequest(text, requestID string) map[string]interface{} {
	appConfig := map[string]interface{}{
		"token":   c.accessToken,
		"cluster": c.cluster,
	}
	if c.appID != "" {
		appConfig["appid"] = c.appID
	}

	return map[string]interface{}{
		"app":  appConfig,
		"user": map[string]interface{}{"uid": requestID},
		"audio": map[string]interface{}{
			"voice_type":   c.voiceType,
			"encoding":     "wav",
			"rate":         44100,
			"speed_ratio":  1.0,
			"volume_ratio": 1.0,
			"pitch_ratio":  1.0,
		},
		"request": map[string]interface{}{
			"reqid":     requestID,
			"text":      text,
			"text_type": "plain",
			"operation": "query",
		},
	}
}

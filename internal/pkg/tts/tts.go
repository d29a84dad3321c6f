package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/kostas2370/Video-Creator/internal/config"
)

// Synthesizer 语音合成接口
// 将文本合成为音频并写入 savePath
type Synthesizer interface {
	Synthesize(ctx context.Context, text, savePath string) error
}

// factory 按配置和音色构造合成器
type factory func(cfg *config.TTSConfig, voiceID string) (Synthesizer, error)

// registry 编译期注册的合成引擎
var registry = map[string]factory{
	"elevenlabs": newElevenLabs,
	"openai":     newOpenAI,
	"volc":       newVolc,
	"local":      newLocal,
}

// Registry 合成引擎注册表
type Registry struct {
	cfg *config.TTSConfig
}

// NewRegistry 创建合成引擎注册表
func NewRegistry(cfg *config.TTSConfig) *Registry {
	return &Registry{cfg: cfg}
}

// ForVoice 按引擎名和音色取合成器
func (r *Registry) ForVoice(provider, voiceID string) (Synthesizer, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported tts provider: %s", provider)
	}
	return fn(r.cfg, voiceID)
}

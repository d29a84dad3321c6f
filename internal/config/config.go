package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	TTS     TTSConfig     `mapstructure:"tts"`
	Image   ImageConfig   `mapstructure:"image"`
	Twitch  TwitchConfig  `mapstructure:"twitch"`
	Lipsync LipsyncConfig `mapstructure:"lipsync"`
	Media   MediaConfig   `mapstructure:"media"`
	Log     LogConfig     `mapstructure:"log"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig 大模型服务配置（脚本生成）
type AIConfig struct {
	Provider string          `mapstructure:"provider"` // gpt / claude / gemini / ark
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// TTSConfig 语音合成配置
type TTSConfig struct {
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	OpenAI     OpenAITTSConfig  `mapstructure:"openai"`
	Volc       VolcTTSConfig    `mapstructure:"volc"`
	Local      LocalTTSConfig   `mapstructure:"local"`
}

// ElevenLabsConfig ElevenLabs API 配置
type ElevenLabsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAITTSConfig OpenAI tts-1 配置
type OpenAITTSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Voice   string `mapstructure:"voice"`
}

// VolcTTSConfig 火山引擎语音合成配置
type VolcTTSConfig struct {
	AppID       string `mapstructure:"app_id"`
	AccessToken string `mapstructure:"access_token"`
	Cluster     string `mapstructure:"cluster"`
	VoiceType   string `mapstructure:"voice_type"`
	BaseURL     string `mapstructure:"base_url"`
}

// LocalTTSConfig 本地合成引擎配置
type LocalTTSConfig struct {
	Command string `mapstructure:"command"` // 本地合成命令，如 espeak / tts
}

// ImageConfig 配图服务配置
type ImageConfig struct {
	DefaultWebProvider string           `mapstructure:"default_web_provider"` // bing
	DefaultAIProvider  string           `mapstructure:"default_ai_provider"`  // dall-e
	Bing               WebSearchConfig  `mapstructure:"bing"`
	Google             WebSearchConfig  `mapstructure:"google"`
	DallE              DallEConfig      `mapstructure:"dalle"`
	Diffusion          DiffusionConfig  `mapstructure:"diffusion"`
	Midjourney         MidjourneyConfig `mapstructure:"midjourney"`
	Volc               VolcImageConfig  `mapstructure:"volc"`
}

// WebSearchConfig 网络图片搜索配置
type WebSearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	SearchCX string `mapstructure:"search_cx"` // Google 自定义搜索引擎ID
}

// DallEConfig DALL-E 生成配置
type DallEConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"`
}

// DiffusionConfig Stable Diffusion 配置
type DiffusionConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// MidjourneyConfig Midjourney 代理配置
type MidjourneyConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// VolcImageConfig 火山引擎文生图配置
type VolcImageConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	ReqKey    string `mapstructure:"req_key"`
	Region    string `mapstructure:"region"`
	Host      string `mapstructure:"host"`
}

// TwitchConfig Twitch API 配置
type TwitchConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// LipsyncConfig 口型合成服务配置
type LipsyncConfig struct {
	ServiceURL string        `mapstructure:"service_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MediaConfig 媒体生成参数
type MediaConfig struct {
	Root         string `mapstructure:"root"`          // 媒体根目录
	OutputWidth  int    `mapstructure:"output_width"`  // 成片宽度
	OutputHeight int    `mapstructure:"output_height"` // 成片高度
	FPS          int    `mapstructure:"fps"`           // 成片帧率
	FFmpegPath   string `mapstructure:"ffmpeg_path"`
	FFprobePath  string `mapstructure:"ffprobe_path"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath      string `mapstructure:"base_path"`      // 基础路径
	BaseURL       string `mapstructure:"base_url"`       // 基础URL（用于生成访问URL）
	PresignExpiry int    `mapstructure:"presign_expiry"` // 预签名URL过期时间（秒）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PresignExpiry   int    `mapstructure:"presign_expiry"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Media.Root == "" {
		return errors.New("media root is required")
	}
	if c.Media.OutputWidth <= 0 || c.Media.OutputHeight <= 0 {
		return errors.New("invalid output resolution")
	}
	if c.Media.FPS <= 0 {
		return errors.New("invalid output fps")
	}

	return nil
}

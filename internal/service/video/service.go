package video

import (
	"context"

	"github.com/kostas2370/Video-Creator/internal/config"
	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/cache"
	"github.com/kostas2370/Video-Creator/internal/pkg/ffmpeg"
	"github.com/kostas2370/Video-Creator/internal/pkg/imagesource"
	"github.com/kostas2370/Video-Creator/internal/pkg/lipsync"
	"github.com/kostas2370/Video-Creator/internal/pkg/llm"
	"github.com/kostas2370/Video-Creator/internal/pkg/storage"
	"github.com/kostas2370/Video-Creator/internal/pkg/tts"
	"github.com/kostas2370/Video-Creator/internal/pkg/twitch"
	videorepo "github.com/kostas2370/Video-Creator/internal/repository/video"
)

// GenerateParams 视频生成参数
type GenerateParams struct {
	Prompt         string // 用户提示词
	Template       string // 模板选择器（ID 或分类名，可为空）
	TargetAudience string // 目标受众（可为空）
	VoiceModelID   string // 指定音色（可为空，空则随机或跟随数字人）
	AvatarID       string // 指定数字人（可为空）
	BackgroundID   string // 指定背景（可为空）
	IntroID        string // 指定片头（可为空）
	OutroID        string // 指定片尾（可为空）
	MusicID        string // 指定背景音乐（可为空）
	Mode           string // 配图模式 WEB / AI
	ImageProvider  string // 配图提供者（可为空，用默认）
	Style          string // AI 生图风格（可为空）
	Subtitles      bool   // 是否烧录字幕
}

// TwitchParams Twitch 聚合视频生成参数
type TwitchParams struct {
	Game     string // 按游戏名聚合（与 Streamer 二选一）
	Streamer string // 按主播聚合
	Amount   int    // 剪辑数量
}

// UpdateParams 视频属性更新参数
// 空串表示不修改，"no_value" 表示清空该引用
type UpdateParams struct {
	Title     string
	AvatarID  string
	IntroID   string
	OutroID   string
	MusicID   string
	AvatarPos string
	Subtitles *bool
}

// Service 视频服务接口
type Service interface {
	// GenerateVideo 生成视频：脚本、语音、配图，完成后状态为 READY
	GenerateVideo(ctx context.Context, params GenerateParams) (*model.Video, error)
	// GenerateTwitchVideo 聚合 Twitch 剪辑生成视频
	GenerateTwitchVideo(ctx context.Context, params TwitchParams) (*model.Video, error)
	// Render 渲染成片，仅 READY / COMPLETED 状态可发起
	Render(ctx context.Context, videoID string) (*model.Video, error)
	// Regenerate 重新合成全部场景语音和配图，不改变脚本结构
	Regenerate(ctx context.Context, videoID string) (*model.Video, error)
	// UpdateVideo 更新视频属性，换数字人时级联切换音色并重新合成语音
	UpdateVideo(ctx context.Context, videoID string, params UpdateParams) (*model.Video, error)
	// UpdateSceneText 直接改写场景文本并重新合成语音
	UpdateSceneText(ctx context.Context, sceneID, text string) (*model.Scene, error)
	// GenerateSceneText 用大模型按指令改写场景文本并重新合成语音
	GenerateSceneText(ctx context.Context, sceneID, instruction string) (*model.Scene, error)
	// RegenerateImage 重新为配图取图，失败时保留原图
	RegenerateImage(ctx context.Context, imageID, style string) (*model.SceneImage, error)
	// Publish 上传成片到存储并记录访问URL
	Publish(ctx context.Context, videoID string) (*model.Video, error)
	// GetVideo 查询视频详情（含场景与配图）
	GetVideo(ctx context.Context, videoID string) (*VideoDetail, error)
	// ListVideos 分页查询视频
	ListVideos(ctx context.Context, videoType model.VideoType, limit, offset int64) ([]*model.Video, error)
}

// VideoDetail 视频详情，嵌套场景和配图
type VideoDetail struct {
	Video  *model.Video   `json:"video"`
	Scenes []*SceneDetail `json:"scenes"`
}

// SceneDetail 场景详情
type SceneDetail struct {
	Scene  *model.Scene        `json:"scene"`
	Images []*model.SceneImage `json:"images"`
}

// SynthesizerPicker 按引擎和音色取语音合成器
type SynthesizerPicker interface {
	ForVoice(provider, voiceID string) (tts.Synthesizer, error)
}

// ImageProviderPicker 按模式和名称取配图提供者
type ImageProviderPicker interface {
	Provider(mode, name string) (imagesource.Provider, error)
}

// Composer 合成所需的 FFmpeg 操作集合，*ffmpeg.Client 是默认实现
type Composer interface {
	GetVideoInfo(ctx context.Context, videoPath string) (*ffmpeg.VideoInfo, error)
	GetAudioInfo(ctx context.Context, audioPath string) (*ffmpeg.AudioInfo, error)
	HasAudioStream(ctx context.Context, path string) (bool, error)
	ExtractAudio(ctx context.Context, inputPath, outputPath string) error
	MixAudioTracks(ctx context.Context, firstPath, secondPath, outputPath string) error
	CreateImageClip(ctx context.Context, imagePath, outputPath string, duration, fadeDuration float64, width, height, fps int) error
	TrimFadeVideo(ctx context.Context, inputPath, outputPath string, duration, fade float64, width, height, fps int) error
	BlackClip(ctx context.Context, outputPath string, duration float64, width, height, fps int) error
	ConcatAudio(ctx context.Context, audioPaths []string, outputPath string) error
	ConcatVideos(ctx context.Context, videoPaths []string, outputPath string) error
	ConcatVideosCompose(ctx context.Context, videoPaths []string, outputPath string, width, height, fps int) error
	Silence(ctx context.Context, outputPath string, duration float64) error
	SetAudio(ctx context.Context, videoPath, audioPath, outputPath string) error
	MixMusic(ctx context.Context, videoPath, musicPath, outputPath string, volume, fade, videoDuration float64) error
	OverlayVideo(ctx context.Context, basePath, overlayPath, outputPath string, width, height int, x, y string, start, end, fade float64) error
	OverlayChromaKey(ctx context.Context, basePath, overlayPath, outputPath, color string, similarity, scale float64, x, y string, fade, overlayDuration float64) error
	AddSubtitles(ctx context.Context, videoPath, assPath, outputPath string) error
	SplitAudioVideo(ctx context.Context, inputPath, videoOut, audioOut string) error
	DrawText(ctx context.Context, inputPath, outputPath, text string, x, y, fontSize int) error
}

// service 视频服务实现
type service struct {
	cfg *config.Config

	videoRepo      videorepo.VideoRepository
	sceneRepo      videorepo.SceneRepository
	sceneImageRepo videorepo.SceneImageRepository
	templateRepo   videorepo.TemplatePromptRepository
	userPromptRepo videorepo.UserPromptRepository
	voiceRepo      videorepo.VoiceModelRepository
	avatarRepo     videorepo.AvatarRepository
	backgroundRepo videorepo.BackgroundRepository
	introRepo      videorepo.IntroRepository
	outroRepo      videorepo.OutroRepository
	musicRepo      videorepo.MusicRepository

	llmProvider llm.Provider
	ttsRegistry SynthesizerPicker
	images      ImageProviderPicker
	twitch      *twitch.Client
	lipsync     lipsync.Engine
	ffmpeg      Composer
	storage     storage.Storage
	cache       *cache.RedisCache
}

// Deps 视频服务依赖
type Deps struct {
	Config         *config.Config
	VideoRepo      videorepo.VideoRepository
	SceneRepo      videorepo.SceneRepository
	SceneImageRepo videorepo.SceneImageRepository
	TemplateRepo   videorepo.TemplatePromptRepository
	UserPromptRepo videorepo.UserPromptRepository
	VoiceRepo      videorepo.VoiceModelRepository
	AvatarRepo     videorepo.AvatarRepository
	BackgroundRepo videorepo.BackgroundRepository
	IntroRepo      videorepo.IntroRepository
	OutroRepo      videorepo.OutroRepository
	MusicRepo      videorepo.MusicRepository
	LLMProvider    llm.Provider
	TTSRegistry    SynthesizerPicker
	Images         ImageProviderPicker
	Twitch         *twitch.Client
	Lipsync        lipsync.Engine
	FFmpeg         Composer
	Storage        storage.Storage
	Cache          *cache.RedisCache
}

// NewService 创建视频服务
func NewService(deps Deps) Service {
	return &service{
		cfg:            deps.Config,
		videoRepo:      deps.VideoRepo,
		sceneRepo:      deps.SceneRepo,
		sceneImageRepo: deps.SceneImageRepo,
		templateRepo:   deps.TemplateRepo,
		userPromptRepo: deps.UserPromptRepo,
		voiceRepo:      deps.VoiceRepo,
		avatarRepo:     deps.AvatarRepo,
		backgroundRepo: deps.BackgroundRepo,
		introRepo:      deps.IntroRepo,
		outroRepo:      deps.OutroRepo,
		musicRepo:      deps.MusicRepo,
		llmProvider:    deps.LLMProvider,
		ttsRegistry:    deps.TTSRegistry,
		images:         deps.Images,
		twitch:         deps.Twitch,
		lipsync:        deps.Lipsync,
		ffmpeg:         deps.FFmpeg,
		storage:        deps.Storage,
		cache:          deps.Cache,
	}
}

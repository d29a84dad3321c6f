package video

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	httputil "github.com/kostas2370/Video-Creator/internal/pkg/http"
	videoservice "github.com/kostas2370/Video-Creator/internal/service/video"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 视频接口处理器
type Handler struct {
	svc videoservice.Service
}

// NewHandler 创建视频接口处理器
func NewHandler(svc videoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// VideoInfo 视频信息 DTO
type VideoInfo struct {
	ID           string `json:"id"`                      // 视频ID
	Title        string `json:"title"`                   // 标题
	Status       string `json:"status"`                  // 生命周期状态
	VideoType    string `json:"video_type"`              // 类型 AI / TWITCH
	Mode         string `json:"mode"`                    // 配图模式
	Output       string `json:"output,omitempty"`        // 成片路径
	URL          string `json:"url,omitempty"`           // 发布后的访问URL
	Subtitles    bool   `json:"subtitles"`               // 是否烧录字幕
	AvatarID     string `json:"avatar_id,omitempty"`     // 数字人ID
	VoiceModelID string `json:"voice_model_id"`          // 音色ID
	ErrorMessage string `json:"error_message,omitempty"` // 失败原因
	CreatedAt    string `json:"created_at"`              // 创建时间
	UpdatedAt    string `json:"updated_at"`              // 更新时间
}

// toVideoInfo 将 Video 实体转换为 VideoInfo DTO
func toVideoInfo(v *model.Video) VideoInfo {
	return VideoInfo{
		ID:           v.ID,
		Title:        v.Title,
		Status:       string(v.Status),
		VideoType:    string(v.VideoType),
		Mode:         string(v.Mode),
		Output:       v.Output,
		URL:          v.URL,
		Subtitles:    v.Subtitles,
		AvatarID:     v.AvatarID,
		VoiceModelID: v.VoiceModelID,
		ErrorMessage: v.ErrorMessage,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
}

// toVideoInfoList 将 Video 实体列表转换为 VideoInfo DTO 列表
func toVideoInfoList(videos []*model.Video) []VideoInfo {
	list := make([]VideoInfo, len(videos))
	for i, v := range videos {
		list[i] = toVideoInfo(v)
	}
	return list
}

// SceneInfo 场景信息 DTO
type SceneInfo struct {
	ID       string           `json:"id"`       // 场景ID
	Text     string           `json:"text"`     // 解说文本
	File     string           `json:"file"`     // 音频文件路径
	IsLast   bool             `json:"is_last"`  // 是否末句
	Sequence int              `json:"sequence"` // 播放顺序
	Images   []SceneImageInfo `json:"images"`   // 场景配图
}

// SceneImageInfo 场景配图 DTO
type SceneImageInfo struct {
	ID        string `json:"id"`             // 配图ID
	File      string `json:"file,omitempty"` // 素材文件路径
	Prompt    string `json:"prompt"`         // 取图查询词
	WithAudio bool   `json:"with_audio"`     // 素材自带音轨
}

// toSceneInfo 将场景详情转换为 SceneInfo DTO
func toSceneInfo(detail *videoservice.SceneDetail) SceneInfo {
	images := make([]SceneImageInfo, len(detail.Images))
	for i, img := range detail.Images {
		images[i] = SceneImageInfo{
			ID:        img.ID,
			File:      img.File,
			Prompt:    img.Prompt,
			WithAudio: img.WithAudio,
		}
	}
	return SceneInfo{
		ID:       detail.Scene.ID,
		Text:     detail.Scene.Text,
		File:     detail.Scene.File,
		IsLast:   detail.Scene.IsLast,
		Sequence: detail.Scene.Sequence,
		Images:   images,
	}
}

// respondError 将服务层错误映射为 HTTP 响应
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, videoservice.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40400, Message: "Resource not found", Detail: err.Error()})
	case errors.Is(err, videoservice.ErrNotRenderable):
		c.JSON(http.StatusConflict, ErrorResponse{Code: 40900, Message: "Video is not in a renderable state", Detail: err.Error()})
	case errors.Is(err, videoservice.ErrGenerationExhausted):
		c.JSON(http.StatusBadGateway, ErrorResponse{Code: 50201, Message: "Scenario generation failed", Detail: err.Error()})
	case errors.Is(err, videoservice.ErrProviderFailure):
		c.JSON(http.StatusBadGateway, ErrorResponse{Code: 50202, Message: "Upstream provider failure", Detail: err.Error()})
	case errors.Is(err, videoservice.ErrRenderFailed):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 50001, Message: "Video render failed", Detail: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 50000, Message: "Internal Server Error", Detail: err.Error()})
	}
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"

	videoservice "github.com/kostas2370/Video-Creator/internal/service/video"
)

// GenerateVideoRequest 生成视频请求
type GenerateVideoRequest struct {
	Prompt         string `json:"prompt" binding:"required"` // 主题提示词（必填）
	Template       string `json:"template"`                  // 场景模板选择器（ID/名称/类别）
	TargetAudience string `json:"target_audience"`           // 目标受众
	VoiceModelID   string `json:"voice_model_id"`            // 指定音色ID
	AvatarID       string `json:"avatar_id"`                 // 数字人ID
	BackgroundID   string `json:"background_id"`             // 背景ID
	IntroID        string `json:"intro_id"`                  // 片头ID
	OutroID        string `json:"outro_id"`                  // 片尾ID
	MusicID        string `json:"music_id"`                  // 背景音乐ID
	Mode           string `json:"mode"`                      // 配图模式 WEB / AI
	ImageProvider  string `json:"image_provider"`            // 指定配图提供方
	Style          string `json:"style"`                     // 配图风格前缀
	Subtitles      bool   `json:"subtitles"`                 // 是否烧录字幕
}

// GenerateVideoResponseData 生成视频响应数据
type GenerateVideoResponseData struct {
	Video VideoInfo `json:"video"` // 视频信息
}

// GenerateVideo 根据提示词生成视频素材
// @Summary      生成视频
// @Description  由LLM生成文案、逐句合成语音并配图，完成后视频进入READY状态等待渲染。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateVideoRequest  true  "生成视频请求"
// @Success      201      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "上游服务失败"
// @Router       /api/v1/videos [post]
func (h *Handler) GenerateVideo(c *gin.Context) {
	var req GenerateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.GenerateVideo(ctx, videoservice.GenerateParams{
		Prompt:         req.Prompt,
		Template:       req.Template,
		TargetAudience: req.TargetAudience,
		VoiceModelID:   req.VoiceModelID,
		AvatarID:       req.AvatarID,
		BackgroundID:   req.BackgroundID,
		IntroID:        req.IntroID,
		OutroID:        req.OutroID,
		MusicID:        req.MusicID,
		Mode:           req.Mode,
		ImageProvider:  req.ImageProvider,
		Style:          req.Style,
		Subtitles:      req.Subtitles,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "视频生成成功",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"

	videoservice "github.com/kostas2370/Video-Creator/internal/service/video"
)

// UpdateVideoRequest 更新视频请求。字段留空表示不修改，传 "no_value" 清除引用。
type UpdateVideoRequest struct {
	Title     string `json:"title"`      // 标题
	AvatarID  string `json:"avatar_id"`  // 数字人ID，换音色时级联重配全部语音
	IntroID   string `json:"intro_id"`   // 片头ID
	OutroID   string `json:"outro_id"`   // 片尾ID
	MusicID   string `json:"music_id"`   // 背景音乐ID
	AvatarPos string `json:"avatar_pos"` // 数字人叠加位置，如 "1300,50"
	Subtitles *bool  `json:"subtitles"`  // 是否烧录字幕
}

// UpdateVideo 更新视频属性
// @Summary      更新视频
// @Description  修改标题、数字人、片头片尾、背景音乐、字幕开关等属性。更换数字人且音色不同时重新合成全部场景语音。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        video_id  path      string              true  "视频ID"
// @Param        request   body      UpdateVideoRequest  true  "更新视频请求"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      400       {object}  ErrorResponse  "请求参数错误"
// @Failure      404       {object}  ErrorResponse  "视频或引用的素材不存在"
// @Router       /api/v1/videos/{video_id} [patch]
func (h *Handler) UpdateVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "video_id is required"})
		return
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.UpdateVideo(ctx, videoID, videoservice.UpdateParams{
		Title:     req.Title,
		AvatarID:  req.AvatarID,
		IntroID:   req.IntroID,
		OutroID:   req.OutroID,
		MusicID:   req.MusicID,
		AvatarPos: req.AvatarPos,
		Subtitles: req.Subtitles,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "视频更新成功",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

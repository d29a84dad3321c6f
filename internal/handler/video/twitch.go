package video

import (
	"net/http"

	"github.com/gin-gonic/gin"

	videoservice "github.com/kostas2370/Video-Creator/internal/service/video"
)

// GenerateTwitchVideoRequest 生成Twitch集锦请求
type GenerateTwitchVideoRequest struct {
	Game     string `json:"game"`     // 游戏名称（与 streamer 二选一）
	Streamer string `json:"streamer"` // 主播登录名（与 game 二选一）
	Amount   int    `json:"amount"`   // 片段数量，默认5，上限20
}

// GenerateTwitchVideo 抓取Twitch热门片段生成集锦
// @Summary      生成Twitch集锦
// @Description  按游戏或主播抓取近7天热门片段，拼装为待渲染的集锦视频。game 与 streamer 必须恰好提供一个。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateTwitchVideoRequest  true  "生成Twitch集锦请求"
// @Success      201      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "上游服务失败"
// @Router       /api/v1/videos/twitch [post]
func (h *Handler) GenerateTwitchVideo(c *gin.Context) {
	var req GenerateTwitchVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}
	if (req.Game == "") == (req.Streamer == "") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Exactly one of game or streamer is required",
		})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.GenerateTwitchVideo(ctx, videoservice.TwitchParams{
		Game:     req.Game,
		Streamer: req.Streamer,
		Amount:   req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "集锦生成成功",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RenderVideo 渲染视频
// @Summary      渲染视频
// @Description  将READY或COMPLETED状态的视频合成为成片。渲染中的视频拒绝并发渲染。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        video_id  path      string  true  "视频ID"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      404       {object}  ErrorResponse  "视频不存在"
// @Failure      409       {object}  ErrorResponse  "当前状态不可渲染"
// @Failure      500       {object}  ErrorResponse  "渲染失败"
// @Router       /api/v1/videos/{video_id}/render [post]
func (h *Handler) RenderVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "video_id is required"})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.Render(ctx, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "渲染完成",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegenerateVideo 重新生成视频素材
// @Summary      重新生成素材
// @Description  保留文案结构，重新合成全部语音并重新取图，视频回到READY状态。可用于从卡死的RENDERING状态恢复。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        video_id  path      string  true  "视频ID"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      404       {object}  ErrorResponse  "视频不存在"
// @Failure      409       {object}  ErrorResponse  "当前状态不可重新生成"
// @Router       /api/v1/videos/{video_id}/regenerate [post]
func (h *Handler) RegenerateVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "video_id is required"})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.Regenerate(ctx, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "素材重新生成成功",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

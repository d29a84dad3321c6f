package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublishVideo 发布成片
// @Summary      发布视频
// @Description  将COMPLETED状态的成片上传至对象存储并回写访问URL。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        video_id  path      string  true  "视频ID"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      404       {object}  ErrorResponse  "视频不存在"
// @Failure      409       {object}  ErrorResponse  "视频尚未渲染完成"
// @Router       /api/v1/videos/{video_id}/publish [post]
func (h *Handler) PublishVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "video_id is required"})
		return
	}

	ctx := c.Request.Context()

	v, err := h.svc.Publish(ctx, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "视频发布成功",
		"data": GenerateVideoResponseData{
			Video: toVideoInfo(v),
		},
	})
}

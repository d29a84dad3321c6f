package video

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
)

// ListVideos 列出视频
// @Summary      列出视频
// @Description  按创建时间倒序分页列出视频，可按类型过滤。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        type    query     string  false  "视频类型 AI / TWITCH"
// @Param        limit   query     int     false  "分页大小，默认20，上限100"
// @Param        offset  query     int     false  "分页偏移"
// @Success      200     {object}  map[string]interface{}  "成功响应"
// @Failure      500     {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/videos [get]
func (h *Handler) ListVideos(c *gin.Context) {
	videoType := model.VideoType(c.Query("type"))
	limit := parseOptionalInt64Query(c, "limit")
	offset := parseOptionalInt64Query(c, "offset")

	ctx := c.Request.Context()

	videos, err := h.svc.ListVideos(ctx, videoType, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"videos": toVideoInfoList(videos),
			"count":  len(videos),
		},
	})
}

func parseOptionalInt64Query(c *gin.Context, key string) int64 {
	val := c.Query(key)
	if val == "" {
		return 0
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

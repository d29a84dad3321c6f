package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetVideoResponseData 获取视频响应数据
type GetVideoResponseData struct {
	Video  VideoInfo   `json:"video"`  // 视频信息
	Scenes []SceneInfo `json:"scenes"` // 按顺序排列的场景及配图
}

// GetVideo 获取视频详情
// @Summary      获取视频详情
// @Description  返回视频信息及其按顺序排列的场景、语音与配图。
// @Tags         视频管理
// @Accept       json
// @Produce      json
// @Param        video_id  path      string  true  "视频ID"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      404       {object}  ErrorResponse  "视频不存在"
// @Router       /api/v1/videos/{video_id} [get]
func (h *Handler) GetVideo(c *gin.Context) {
	videoID := c.Param("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "video_id is required"})
		return
	}

	ctx := c.Request.Context()

	detail, err := h.svc.GetVideo(ctx, videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	scenes := make([]SceneInfo, 0, len(detail.Scenes))
	for _, s := range detail.Scenes {
		scenes = append(scenes, toSceneInfo(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data": GetVideoResponseData{
			Video:  toVideoInfo(detail.Video),
			Scenes: scenes,
		},
	})
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegenerateImageRequest 重新取图请求
type RegenerateImageRequest struct {
	Style string `json:"style"` // 配图风格前缀
}

// RegenerateImageResponseData 重新取图响应数据
type RegenerateImageResponseData struct {
	Image SceneImageInfo `json:"image"` // 配图信息
}

// RegenerateImage 重新获取场景配图
// @Summary      重新取图
// @Description  用原查询词重新向配图提供方取图，失败时保留原素材。
// @Tags         场景管理
// @Accept       json
// @Produce      json
// @Param        image_id  path      string                  true  "配图ID"
// @Param        request   body      RegenerateImageRequest  false "重新取图请求"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      404       {object}  ErrorResponse  "配图不存在"
// @Router       /api/v1/scene-images/{image_id}/regenerate [post]
func (h *Handler) RegenerateImage(c *gin.Context) {
	imageID := c.Param("image_id")
	if imageID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "image_id is required"})
		return
	}

	var req RegenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	img, err := h.svc.RegenerateImage(ctx, imageID, req.Style)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "配图重新获取成功",
		"data": RegenerateImageResponseData{
			Image: SceneImageInfo{
				ID:        img.ID,
				File:      img.File,
				Prompt:    img.Prompt,
				WithAudio: img.WithAudio,
			},
		},
	})
}

package video

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
)

// UpdateSceneTextRequest 修改场景文本请求
type UpdateSceneTextRequest struct {
	Text string `json:"text" binding:"required"` // 新的解说文本（必填）
}

// GenerateSceneTextRequest 改写场景文本请求
type GenerateSceneTextRequest struct {
	Instruction string `json:"instruction" binding:"required"` // 改写指令（必填）
}

// SceneResponseData 场景响应数据
type SceneResponseData struct {
	Scene sceneOnly `json:"scene"` // 场景信息
}

type sceneOnly struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	File     string `json:"file"`
	IsLast   bool   `json:"is_last"`
	Sequence int    `json:"sequence"`
}

func toSceneOnly(s *model.Scene) sceneOnly {
	return sceneOnly{
		ID:       s.ID,
		Text:     s.Text,
		File:     s.File,
		IsLast:   s.IsLast,
		Sequence: s.Sequence,
	}
}

// UpdateSceneText 直接修改场景文本
// @Summary      修改场景文本
// @Description  替换场景解说文本并重新合成该场景语音。
// @Tags         场景管理
// @Accept       json
// @Produce      json
// @Param        scene_id  path      string                  true  "场景ID"
// @Param        request   body      UpdateSceneTextRequest  true  "修改场景文本请求"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      400       {object}  ErrorResponse  "请求参数错误"
// @Failure      404       {object}  ErrorResponse  "场景不存在"
// @Router       /api/v1/scenes/{scene_id}/text [put]
func (h *Handler) UpdateSceneText(c *gin.Context) {
	sceneID := c.Param("scene_id")
	if sceneID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "scene_id is required"})
		return
	}

	var req UpdateSceneTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	scene, err := h.svc.UpdateSceneText(ctx, sceneID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "场景文本更新成功",
		"data":    SceneResponseData{Scene: toSceneOnly(scene)},
	})
}

// GenerateSceneText 按指令改写场景文本
// @Summary      改写场景文本
// @Description  由LLM按指令改写场景解说文本并重新合成该场景语音。
// @Tags         场景管理
// @Accept       json
// @Produce      json
// @Param        scene_id  path      string                    true  "场景ID"
// @Param        request   body      GenerateSceneTextRequest  true  "改写场景文本请求"
// @Success      200       {object}  map[string]interface{}  "成功响应"
// @Failure      400       {object}  ErrorResponse  "请求参数错误"
// @Failure      404       {object}  ErrorResponse  "场景不存在"
// @Failure      502       {object}  ErrorResponse  "上游服务失败"
// @Router       /api/v1/scenes/{scene_id}/generate-text [post]
func (h *Handler) GenerateSceneText(c *gin.Context) {
	sceneID := c.Param("scene_id")
	if sceneID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "scene_id is required"})
		return
	}

	var req GenerateSceneTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	scene, err := h.svc.GenerateSceneText(ctx, sceneID, req.Instruction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "场景文本改写成功",
		"data":    SceneResponseData{Scene: toSceneOnly(scene)},
	})
}

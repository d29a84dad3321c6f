package video

import "errors"

var (
	// ErrGenerationExhausted 脚本生成重试次数用尽
	ErrGenerationExhausted = errors.New("scenario generation retries exhausted")
	// ErrProviderFailure 外部服务调用失败
	ErrProviderFailure = errors.New("provider failure")
	// ErrNotRenderable 当前状态不允许渲染
	ErrNotRenderable = errors.New("video is not renderable in its current status")
	// ErrRenderFailed 渲染过程失败
	ErrRenderFailed = errors.New("video render failed")
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
)

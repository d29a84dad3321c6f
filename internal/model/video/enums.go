package video

// VideoStatus 视频生命周期状态
type VideoStatus string

const (
	VideoStatusGeneration VideoStatus = "GENERATION" // 生成中（脚本/语音/配图）
	VideoStatusReady      VideoStatus = "READY"      // 素材齐备，可渲染
	VideoStatusRendering  VideoStatus = "RENDERING"  // 渲染中
	VideoStatusCompleted  VideoStatus = "COMPLETED"  // 渲染完成
	VideoStatusFailed     VideoStatus = "FAILED"     // 生成失败
)

// String 返回状态的字符串表示
func (s VideoStatus) String() string {
	return string(s)
}

// VideoType 视频类型
type VideoType string

const (
	VideoTypeAI     VideoType = "AI"     // AI 脚本生成视频
	VideoTypeTwitch VideoType = "TWITCH" // Twitch 剪辑聚合视频
)

// String 返回类型的字符串表示
func (t VideoType) String() string {
	return string(t)
}

// ImageMode 配图模式
type ImageMode string

const (
	ImageModeWeb ImageMode = "WEB" // 网络图片搜索
	ImageModeAI  ImageMode = "AI"  // AI 生成图片
)

// String 返回模式的字符串表示
func (m ImageMode) String() string {
	return string(m)
}

// TemplateCategory 提示词模板分类
type TemplateCategory string

const (
	TemplateCategoryEducational   TemplateCategory = "EDUCATIONAL"
	TemplateCategoryGaming        TemplateCategory = "GAMING"
	TemplateCategoryAdvertisement TemplateCategory = "ADVERTISEMENT"
	TemplateCategoryStory         TemplateCategory = "STORY"
	TemplateCategoryOther         TemplateCategory = "OTHER"
)

// String 返回分类的字符串表示
func (c TemplateCategory) String() string {
	return string(c)
}

// VoiceType 语音模型类型
type VoiceType string

const (
	VoiceTypeAPI   VoiceType = "API"   // 远程 API 合成
	VoiceTypeLocal VoiceType = "LOCAL" // 本地引擎合成
)

// String 返回类型的字符串表示
func (t VoiceType) String() string {
	return string(t)
}

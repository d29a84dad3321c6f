package scenario

import (
	"fmt"
	"strings"
)

// DefaultSentencedFormat 默认分句脚本骨架
const DefaultSentencedFormat = `You are a professional video script writer.
Write a video script about the requested topic.
Answer strictly with one JSON object of the following shape and nothing else:
{
  "title": "video title",
  "scenes": [
    {
      "scene": [
        {"sentence": "one spoken sentence", "image": "short image search query for this sentence"}
      ]
    }
  ]
}
Every sentence must be short enough to speak in under 15 seconds.`

// DefaultDialogueFormat 默认整段脚本骨架
const DefaultDialogueFormat = `You are a professional video script writer.
Write a video script about the requested topic.
Answer strictly with one JSON object of the following shape and nothing else:
{
  "title": "video title",
  "scenes": [
    {"dialogue": "full narration text of this scene", "image": "short image search query"}
  ]
}`

// FormatPrompt 拼装发送给大模型的完整提示词
func FormatPrompt(format, userPrompt string) string {
	format = strings.TrimSpace(format)
	if format == "" {
		format = DefaultSentencedFormat
	}
	return fmt.Sprintf("%s\n\nTopic: %s", format, strings.TrimSpace(userPrompt))
}

// FormatUpdateForm 拼装场景改写提示词
// 要求模型仅输出改写后的文本，不携带任何包装
func FormatUpdateForm(sceneText, instruction string) string {
	return fmt.Sprintf(
		"Rewrite the following narration according to the instruction.\n"+
			"Answer with the rewritten narration only, no quotes, no explanation.\n\n"+
			"Narration: %s\n\nInstruction: %s",
		strings.TrimSpace(sceneText), strings.TrimSpace(instruction))
}

// FormatImagePrompt 拼装文生图提示词
func FormatImagePrompt(title, description string) string {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return description
	}
	return fmt.Sprintf("%s : %s", title, description)
}

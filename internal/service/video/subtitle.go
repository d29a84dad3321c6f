package video

import (
	"fmt"
	"strings"
)

// buildASS 生成字幕文件内容
// 每个场景一条字幕，时长等于该场景的音频时长，带淡入淡出
func buildASS(plan *CompositionPlan, durations []float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[Script Info]\n")
	fmt.Fprintf(&sb, "ScriptType: v4.00+\n")
	fmt.Fprintf(&sb, "PlayResX: %d\n", plan.Width)
	fmt.Fprintf(&sb, "PlayResY: %d\n\n", plan.Height)

	fmt.Fprintf(&sb, "[V4+ Styles]\n")
	fmt.Fprintf(&sb, "Format: Name, Fontname, Fontsize, PrimaryColour, OutlineColour, BackColour, Bold, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb, "Style: Default,Arial,%d,&H00FFFFFF,&H00000000,&H80000000,0,2,0,7,0,0,0,1\n\n", subtitleFontSize)

	fmt.Fprintf(&sb, "[Events]\n")
	fmt.Fprintf(&sb, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	var offset float64
	for i, clip := range plan.Clips {
		if i >= len(durations) {
			break
		}
		start := offset
		end := offset + durations[i]
		offset = end

		text := strings.ReplaceAll(clip.Text, "\n", "\\N")
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,{\\pos(%d,%d)\\fad(%d,%d)}%s\n",
			assTime(start), assTime(end), subtitleX, subtitleY, subtitleFadeMillis, subtitleFadeMillis, text)
	}
	return sb.String()
}

// assTime 秒数转 ASS 时间格式 h:mm:ss.cs
func assTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	cs := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

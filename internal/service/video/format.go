package video

import (
	"context"
	"fmt"
	"strings"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/scenario"
)

// resolveTemplate 解析模板选择器并拼装完整提示词
// 选择器为空或无匹配时回退到内置骨架，从不因模板缺失报错
func (s *service) resolveTemplate(ctx context.Context, params GenerateParams) (*model.TemplatePrompt, string, error) {
	var tpl *model.TemplatePrompt

	selector := strings.TrimSpace(params.Template)
	if selector != "" {
		found, err := s.templateRepo.Resolve(ctx, selector)
		if err != nil {
			return nil, "", fmt.Errorf("resolve template: %w", err)
		}
		tpl = found
	}

	format := ""
	if tpl != nil {
		format = tpl.Format
		// 整段式模板没带自己的骨架时用内置的整段骨架，而不是分句骨架
		if strings.TrimSpace(format) == "" && !tpl.IsSentenced {
			format = scenario.DefaultDialogueFormat
		}
	}

	topic := strings.TrimSpace(params.Prompt)
	if params.TargetAudience != "" {
		topic = fmt.Sprintf("%s\nTarget audience: %s", topic, strings.TrimSpace(params.TargetAudience))
	}

	return tpl, scenario.FormatPrompt(format, topic), nil
}

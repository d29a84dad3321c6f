package video

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kostas2370/Video-Creator/internal/pkg/scenario"
)

// maxGenerationAttempts 脚本生成重试预算
const maxGenerationAttempts = 5

// generateScenario 调用大模型生成脚本，解析失败时整体重试
// 鉴权、配额类错误不可恢复，直接中止不消耗重试
func (s *service) generateScenario(ctx context.Context, prompt string) (*scenario.Scenario, string, scenario.Fields, error) {
	var lastErr error

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		answer, err := s.llmProvider.Generate(ctx, prompt)
		if err != nil {
			if isUnrecoverable(err) {
				return nil, "", scenario.Fields{}, fmt.Errorf("%w: %v", ErrProviderFailure, err)
			}
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("脚本生成调用失败，重试")
			continue
		}

		sc, err := scenario.Parse(answer)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("脚本解析失败，重试")
			continue
		}

		fields, err := scenario.DetectFields(sc.Scenes)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("脚本场景结构无法识别，重试")
			continue
		}

		return sc, answer, fields, nil
	}

	return nil, "", scenario.Fields{}, fmt.Errorf("%w: %v", ErrGenerationExhausted, lastErr)
}

// isUnrecoverable 判断是否为重试无意义的提供方错误
func isUnrecoverable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"unauthorized", "invalid api key", "insufficient_quota", "status 401", "status 403", "status 429"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// EnsureIndexes 创建所有模型的索引
// 这是一个统一的入口，用于在应用启动时创建所有模型的索引
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	models := []Model{
		&video.TemplatePrompt{},
		&video.UserPrompt{},
		&video.Video{},
		&video.Scene{},
		&video.SceneImage{},
		&video.VoiceModel{},
		&video.Avatar{},
		&video.Background{},
		&video.Intro{},
		&video.Outro{},
		&video.Music{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}

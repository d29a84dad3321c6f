package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplatePrompt 脚本提示词模板
// 说明：format 为脚本骨架文本，is_sentenced 决定解说是否按句切分为多个场景
type TemplatePrompt struct {
	ID          string           `bson:"id" json:"id"`                     // 模板ID（UUID）
	Title       string           `bson:"title" json:"title"`               // 模板标题
	Category    TemplateCategory `bson:"category" json:"category"`         // 模板分类
	Format      string           `bson:"format" json:"format"`             // 脚本骨架文本
	IsSentenced bool             `bson:"is_sentenced" json:"is_sentenced"` // 是否按句切分
	CreatedAt   time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time       `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (t *TemplatePrompt) Collection() string {
	return "template_prompts"
}

// EnsureIndexes 创建和维护索引
func (t *TemplatePrompt) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

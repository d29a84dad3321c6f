package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SceneImage 场景配图实体
// 说明：file 为空表示该场景取图失败，渲染时回退到占位素材
type SceneImage struct {
	ID        string     `bson:"id" json:"id"`                             // 配图ID（UUID）
	SceneID   string     `bson:"scene_id" json:"scene_id"`                 // 关联的场景ID
	File      string     `bson:"file,omitempty" json:"file,omitempty"`     // 图片/视频文件路径（可为空）
	Prompt    string     `bson:"prompt" json:"prompt"`                     // 取图使用的查询词
	WithAudio bool       `bson:"with_audio" json:"with_audio"`             // 素材自带音轨（Twitch 剪辑）
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (i *SceneImage) Collection() string {
	return "scene_images"
}

// EnsureIndexes 创建和维护索引
func (i *SceneImage) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(i.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scene_id", Value: 1}},
			Options: options.Index().SetName("idx_scene_id"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Background 背景素材实体
// 说明：color 为抠像的键色，through 为键色容差阈值
type Background struct {
	ID        string     `bson:"id" json:"id"`                 // 背景ID（UUID）
	Category  string     `bson:"category" json:"category"`     // 素材分类
	File      string     `bson:"file" json:"file"`             // 背景视频路径
	Color     string     `bson:"color" json:"color"`           // 抠像键色，如 "0,255,0"
	Through   int        `bson:"through" json:"through"`       // 键色容差阈值
	ImagePos  string     `bson:"image_pos" json:"image_pos"`   // 配图叠加位置，如 "860,60"
	AvatarPos string     `bson:"avatar_pos" json:"avatar_pos"` // 数字人叠加位置
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (b *Background) Collection() string {
	return "backgrounds"
}

// EnsureIndexes 创建和维护索引
func (b *Background) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(b.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Intro 片头素材实体
type Intro struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	File      string     `bson:"file" json:"file"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (i *Intro) Collection() string {
	return "intros"
}

// EnsureIndexes 创建和维护索引
func (i *Intro) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(i.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Outro 片尾素材实体
type Outro struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	File      string     `bson:"file" json:"file"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (o *Outro) Collection() string {
	return "outros"
}

// EnsureIndexes 创建和维护索引
func (o *Outro) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(o.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Music 背景音乐素材实体
type Music struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Category  string     `bson:"category" json:"category"`
	File      string     `bson:"file" json:"file"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (m *Music) Collection() string {
	return "music"
}

// EnsureIndexes 创建和维护索引
func (m *Music) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(m.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

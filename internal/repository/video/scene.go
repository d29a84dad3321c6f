package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// SceneRepository 场景仓库接口
type SceneRepository interface {
	Create(ctx context.Context, scene *video.Scene) error
	CreateMany(ctx context.Context, scenes []*video.Scene) error
	FindByID(ctx context.Context, id string) (*video.Scene, error)
	FindByPromptID(ctx context.Context, promptID string) ([]*video.Scene, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	DeleteByPromptID(ctx context.Context, promptID string) error
}

// SceneRepo 场景仓库实现
type SceneRepo struct {
	coll *mongo.Collection
}

// NewSceneRepo 创建场景仓库
func NewSceneRepo(db *mongo.Database) *SceneRepo {
	var s video.Scene
	return &SceneRepo{coll: db.Collection(s.Collection())}
}

// Create 创建场景
func (r *SceneRepo) Create(ctx context.Context, scene *video.Scene) error {
	now := time.Now()
	scene.CreatedAt = now
	scene.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, scene)
	return err
}

// CreateMany 批量创建场景
func (r *SceneRepo) CreateMany(ctx context.Context, scenes []*video.Scene) error {
	if len(scenes) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(scenes))
	for i, scene := range scenes {
		scene.CreatedAt = now
		scene.UpdatedAt = now
		docs[i] = scene
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByID 根据ID查询场景
func (r *SceneRepo) FindByID(ctx context.Context, id string) (*video.Scene, error) {
	var scene video.Scene
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// FindByPromptID 根据提示词ID查询所有场景（按sequence排序）
func (r *SceneRepo) FindByPromptID(ctx context.Context, promptID string) ([]*video.Scene, error) {
	filter := bson.M{"prompt_id": promptID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var scenes []*video.Scene
	if err := cur.All(ctx, &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// Update 更新场景
func (r *SceneRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": updates},
	)
	return err
}

// Delete 软删除场景
func (r *SceneRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}

// DeleteByPromptID 根据提示词ID软删除所有场景
func (r *SceneRepo) DeleteByPromptID(ctx context.Context, promptID string) error {
	_, err := r.coll.UpdateMany(
		ctx,
		bson.M{"prompt_id": promptID, "deleted_at": nil},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}

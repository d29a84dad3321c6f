package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// SceneImageRepository 场景配图仓库接口
type SceneImageRepository interface {
	Create(ctx context.Context, img *video.SceneImage) error
	CreateMany(ctx context.Context, imgs []*video.SceneImage) error
	FindByID(ctx context.Context, id string) (*video.SceneImage, error)
	FindBySceneID(ctx context.Context, sceneID string) ([]*video.SceneImage, error)
	FindBySceneIDs(ctx context.Context, sceneIDs []string) ([]*video.SceneImage, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteBySceneID(ctx context.Context, sceneID string) error
}

// SceneImageRepo 场景配图仓库实现
type SceneImageRepo struct {
	coll *mongo.Collection
}

// NewSceneImageRepo 创建场景配图仓库
func NewSceneImageRepo(db *mongo.Database) *SceneImageRepo {
	var i video.SceneImage
	return &SceneImageRepo{coll: db.Collection(i.Collection())}
}

// Create 创建配图
func (r *SceneImageRepo) Create(ctx context.Context, img *video.SceneImage) error {
	now := time.Now()
	img.CreatedAt = now
	img.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, img)
	return err
}

// CreateMany 批量创建配图
func (r *SceneImageRepo) CreateMany(ctx context.Context, imgs []*video.SceneImage) error {
	if len(imgs) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(imgs))
	for i, img := range imgs {
		img.CreatedAt = now
		img.UpdatedAt = now
		docs[i] = img
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByID 根据ID查询配图
func (r *SceneImageRepo) FindByID(ctx context.Context, id string) (*video.SceneImage, error) {
	var img video.SceneImage
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&img); err != nil {
		return nil, err
	}
	return &img, nil
}

// FindBySceneID 根据场景ID查询配图（按创建时间排序）
func (r *SceneImageRepo) FindBySceneID(ctx context.Context, sceneID string) ([]*video.SceneImage, error) {
	filter := bson.M{"scene_id": sceneID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var imgs []*video.SceneImage
	if err := cur.All(ctx, &imgs); err != nil {
		return nil, err
	}
	return imgs, nil
}

// FindBySceneIDs 批量查询多个场景的配图
func (r *SceneImageRepo) FindBySceneIDs(ctx context.Context, sceneIDs []string) ([]*video.SceneImage, error) {
	if len(sceneIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{"scene_id": bson.M{"$in": sceneIDs}, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var imgs []*video.SceneImage
	if err := cur.All(ctx, &imgs); err != nil {
		return nil, err
	}
	return imgs, nil
}

// Update 更新配图
func (r *SceneImageRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": updates},
	)
	return err
}

// DeleteBySceneID 根据场景ID软删除配图
func (r *SceneImageRepo) DeleteBySceneID(ctx context.Context, sceneID string) error {
	_, err := r.coll.UpdateMany(
		ctx,
		bson.M{"scene_id": sceneID, "deleted_at": nil},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}

package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// AvatarRepository 数字人仓库接口
type AvatarRepository interface {
	Create(ctx context.Context, a *video.Avatar) error
	FindByID(ctx context.Context, id string) (*video.Avatar, error)
	FindRandom(ctx context.Context) (*video.Avatar, error)
	List(ctx context.Context) ([]*video.Avatar, error)
}

// BackgroundRepository 背景素材仓库接口
type BackgroundRepository interface {
	Create(ctx context.Context, b *video.Background) error
	FindByID(ctx context.Context, id string) (*video.Background, error)
	FindByCategory(ctx context.Context, category string) (*video.Background, error)
	List(ctx context.Context) ([]*video.Background, error)
}

// IntroRepository 片头仓库接口
type IntroRepository interface {
	Create(ctx context.Context, i *video.Intro) error
	FindByID(ctx context.Context, id string) (*video.Intro, error)
	List(ctx context.Context) ([]*video.Intro, error)
}

// OutroRepository 片尾仓库接口
type OutroRepository interface {
	Create(ctx context.Context, o *video.Outro) error
	FindByID(ctx context.Context, id string) (*video.Outro, error)
	List(ctx context.Context) ([]*video.Outro, error)
}

// MusicRepository 背景音乐仓库接口
type MusicRepository interface {
	Create(ctx context.Context, m *video.Music) error
	FindByID(ctx context.Context, id string) (*video.Music, error)
	List(ctx context.Context) ([]*video.Music, error)
}

// AvatarRepo 数字人仓库实现
type AvatarRepo struct {
	coll *mongo.Collection
}

// NewAvatarRepo 创建数字人仓库
func NewAvatarRepo(db *mongo.Database) *AvatarRepo {
	var a video.Avatar
	return &AvatarRepo{coll: db.Collection(a.Collection())}
}

// Create 创建数字人
func (r *AvatarRepo) Create(ctx context.Context, a *video.Avatar) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

// FindByID 根据ID查询数字人
func (r *AvatarRepo) FindByID(ctx context.Context, id string) (*video.Avatar, error) {
	var a video.Avatar
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindRandom 随机取一个数字人
func (r *AvatarRepo) FindRandom(ctx context.Context) (*video.Avatar, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deleted_at": nil}}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var avatars []*video.Avatar
	if err := cur.All(ctx, &avatars); err != nil {
		return nil, err
	}
	if len(avatars) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return avatars[0], nil
}

// List 查询全部数字人
func (r *AvatarRepo) List(ctx context.Context) ([]*video.Avatar, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var avatars []*video.Avatar
	if err := cur.All(ctx, &avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}

// BackgroundRepo 背景素材仓库实现
type BackgroundRepo struct {
	coll *mongo.Collection
}

// NewBackgroundRepo 创建背景素材仓库
func NewBackgroundRepo(db *mongo.Database) *BackgroundRepo {
	var b video.Background
	return &BackgroundRepo{coll: db.Collection(b.Collection())}
}

// Create 创建背景素材
func (r *BackgroundRepo) Create(ctx context.Context, b *video.Background) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Through == 0 {
		b.Through = 6
	}
	_, err := r.coll.InsertOne(ctx, b)
	return err
}

// FindByID 根据ID查询背景素材
func (r *BackgroundRepo) FindByID(ctx context.Context, id string) (*video.Background, error) {
	var b video.Background
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByCategory 根据分类查询背景素材
func (r *BackgroundRepo) FindByCategory(ctx context.Context, category string) (*video.Background, error) {
	var b video.Background
	opts := options.FindOne().SetSort(bson.M{"created_at": 1})
	if err := r.coll.FindOne(ctx, bson.M{"category": category, "deleted_at": nil}, opts).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List 查询全部背景素材
func (r *BackgroundRepo) List(ctx context.Context) ([]*video.Background, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bgs []*video.Background
	if err := cur.All(ctx, &bgs); err != nil {
		return nil, err
	}
	return bgs, nil
}

// IntroRepo 片头仓库实现
type IntroRepo struct {
	coll *mongo.Collection
}

// NewIntroRepo 创建片头仓库
func NewIntroRepo(db *mongo.Database) *IntroRepo {
	var i video.Intro
	return &IntroRepo{coll: db.Collection(i.Collection())}
}

// Create 创建片头
func (r *IntroRepo) Create(ctx context.Context, i *video.Intro) error {
	now := time.Now()
	i.CreatedAt = now
	i.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, i)
	return err
}

// FindByID 根据ID查询片头
func (r *IntroRepo) FindByID(ctx context.Context, id string) (*video.Intro, error) {
	var i video.Intro
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&i); err != nil {
		return nil, err
	}
	return &i, nil
}

// List 查询全部片头
func (r *IntroRepo) List(ctx context.Context) ([]*video.Intro, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var intros []*video.Intro
	if err := cur.All(ctx, &intros); err != nil {
		return nil, err
	}
	return intros, nil
}

// OutroRepo 片尾仓库实现
type OutroRepo struct {
	coll *mongo.Collection
}

// NewOutroRepo 创建片尾仓库
func NewOutroRepo(db *mongo.Database) *OutroRepo {
	var o video.Outro
	return &OutroRepo{coll: db.Collection(o.Collection())}
}

// Create 创建片尾
func (r *OutroRepo) Create(ctx context.Context, o *video.Outro) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

// FindByID 根据ID查询片尾
func (r *OutroRepo) FindByID(ctx context.Context, id string) (*video.Outro, error) {
	var o video.Outro
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List 查询全部片尾
func (r *OutroRepo) List(ctx context.Context) ([]*video.Outro, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var outros []*video.Outro
	if err := cur.All(ctx, &outros); err != nil {
		return nil, err
	}
	return outros, nil
}

// MusicRepo 背景音乐仓库实现
type MusicRepo struct {
	coll *mongo.Collection
}

// NewMusicRepo 创建背景音乐仓库
func NewMusicRepo(db *mongo.Database) *MusicRepo {
	var m video.Music
	return &MusicRepo{coll: db.Collection(m.Collection())}
}

// Create 创建背景音乐
func (r *MusicRepo) Create(ctx context.Context, m *video.Music) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

// FindByID 根据ID查询背景音乐
func (r *MusicRepo) FindByID(ctx context.Context, id string) (*video.Music, error) {
	var m video.Music
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// List 查询全部背景音乐
func (r *MusicRepo) List(ctx context.Context) ([]*video.Music, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tracks []*video.Music
	if err := cur.All(ctx, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

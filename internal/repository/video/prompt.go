package video

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// TemplatePromptRepository 模板仓库接口
type TemplatePromptRepository interface {
	Create(ctx context.Context, tpl *video.TemplatePrompt) error
	FindByID(ctx context.Context, id string) (*video.TemplatePrompt, error)
	FindByCategory(ctx context.Context, category video.TemplateCategory) (*video.TemplatePrompt, error)
	// Resolve 按选择器解析模板：纯数字/UUID 按ID查找，否则按分类（大写）查找，
	// 都不匹配时返回 nil, nil
	Resolve(ctx context.Context, selector string) (*video.TemplatePrompt, error)
	List(ctx context.Context) ([]*video.TemplatePrompt, error)
}

// UserPromptRepository 用户提示词仓库接口
type UserPromptRepository interface {
	Create(ctx context.Context, p *video.UserPrompt) error
	FindByID(ctx context.Context, id string) (*video.UserPrompt, error)
}

// TemplatePromptRepo 模板仓库实现
type TemplatePromptRepo struct {
	coll *mongo.Collection
}

// NewTemplatePromptRepo 创建模板仓库
func NewTemplatePromptRepo(db *mongo.Database) *TemplatePromptRepo {
	var t video.TemplatePrompt
	return &TemplatePromptRepo{coll: db.Collection(t.Collection())}
}

// Create 创建模板
func (r *TemplatePromptRepo) Create(ctx context.Context, tpl *video.TemplatePrompt) error {
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, tpl)
	return err
}

// FindByID 根据ID查询模板
func (r *TemplatePromptRepo) FindByID(ctx context.Context, id string) (*video.TemplatePrompt, error) {
	var tpl video.TemplatePrompt
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// FindByCategory 根据分类查询模板（取最早创建的一个）
func (r *TemplatePromptRepo) FindByCategory(ctx context.Context, category video.TemplateCategory) (*video.TemplatePrompt, error) {
	var tpl video.TemplatePrompt
	opts := options.FindOne().SetSort(bson.M{"created_at": 1})
	if err := r.coll.FindOne(ctx, bson.M{"category": category, "deleted_at": nil}, opts).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Resolve 按选择器解析模板
func (r *TemplatePromptRepo) Resolve(ctx context.Context, selector string) (*video.TemplatePrompt, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, nil
	}

	if _, err := strconv.Atoi(selector); err == nil || looksLikeID(selector) {
		tpl, err := r.FindByID(ctx, selector)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return tpl, err
	}

	tpl, err := r.FindByCategory(ctx, video.TemplateCategory(strings.ToUpper(selector)))
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return tpl, err
}

// List 查询全部模板
func (r *TemplatePromptRepo) List(ctx context.Context) ([]*video.TemplatePrompt, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tpls []*video.TemplatePrompt
	if err := cur.All(ctx, &tpls); err != nil {
		return nil, err
	}
	return tpls, nil
}

// looksLikeID 判断选择器是否形如UUID
func looksLikeID(s string) bool {
	return strings.Count(s, "-") == 4 && len(s) == 36
}

// UserPromptRepo 用户提示词仓库实现
type UserPromptRepo struct {
	coll *mongo.Collection
}

// NewUserPromptRepo 创建用户提示词仓库
func NewUserPromptRepo(db *mongo.Database) *UserPromptRepo {
	var p video.UserPrompt
	return &UserPromptRepo{coll: db.Collection(p.Collection())}
}

// Create 创建用户提示词
func (r *UserPromptRepo) Create(ctx context.Context, p *video.UserPrompt) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

// FindByID 根据ID查询用户提示词
func (r *UserPromptRepo) FindByID(ctx context.Context, id string) (*video.UserPrompt, error) {
	var p video.UserPrompt
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

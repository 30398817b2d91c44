package repository

import (
	"context"

	"trust_feed/internal/domain/post/model"
	profileModel "trust_feed/internal/domain/profile/model"

	"gorm.io/gorm"
)

// VisibilityFilter 读取时按观看者等级过滤
type VisibilityFilter struct {
	ViewerID   string
	ViewerTier int
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// GetWithAuthor 返回动态与作者，作者不存在时 Author 为 nil
	GetWithAuthor(ctx context.Context, id string) (*model.PostWithAuthor, error)
	UpdateClassification(ctx context.Context, id, content string, negativityLevel, visibilityLevel int) error
	// OverwriteContent 举报成立后覆盖内容，负面等级至少为 1
	OverwriteContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, parentID *string, filter VisibilityFilter, offset, limit int) ([]model.PostWithAuthor, int64, error)

	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike 返回是否真的删除了一条记录
	DeleteLike(ctx context.Context, userID, postID string) (bool, error)
	CountLikes(ctx context.Context, postIDs []string) (map[string]int64, error)

	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

// --- Post ---

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetWithAuthor(ctx context.Context, id string) (*model.PostWithAuthor, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	authors, err := r.authors(ctx, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &model.PostWithAuthor{Post: *post, Author: authorOf(post, authors)}, nil
}

func (r *postRepository) UpdateClassification(ctx context.Context, id, content string, negativityLevel, visibilityLevel int) error {
	result := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":          content,
		"negativity_level": negativityLevel,
		"visibility_level": visibilityLevel,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) OverwriteContent(ctx context.Context, id, content string) error {
	result := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":          content,
		"negativity_level": gorm.Expr("CASE WHEN negativity_level < 1 THEN 1 ELSE negativity_level END"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) List(ctx context.Context, parentID *string, filter VisibilityFilter, offset, limit int) ([]model.PostWithAuthor, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Post{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	query = query.Where("(visibility_level IS NULL OR visibility_level <= ? OR author_id = ?)", filter.ViewerTier, filter.ViewerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").Order("id").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	authors, err := r.authors(ctx, posts)
	if err != nil {
		return nil, 0, err
	}
	out := make([]model.PostWithAuthor, 0, len(posts))
	for i := range posts {
		out = append(out, model.PostWithAuthor{Post: posts[i], Author: authorOf(&posts[i], authors)})
	}
	return out, total, nil
}

// authors 一次查出所有作者，已删除的账号不会出现在结果里
func (r *postRepository) authors(ctx context.Context, posts []model.Post) (map[string]*model.Author, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.AuthorID != nil {
			ids = append(ids, *p.AuthorID)
		}
	}
	authors := make(map[string]*model.Author, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	var profiles []profileModel.Profile
	if err := r.db.WithContext(ctx).Select("id", "nickname", "trust_score").Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		authors[p.ID] = &model.Author{ID: p.ID, Nickname: p.Nickname, TrustScore: p.TrustScore}
	}
	return authors, nil
}

func authorOf(post *model.Post, authors map[string]*model.Author) *model.Author {
	if post.AuthorID == nil {
		return nil
	}
	return authors[*post.AuthorID]
}

// --- Like ---

func (r *postRepository) CreateLike(ctx context.Context, like *model.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *postRepository) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
	return result.RowsAffected > 0, result.Error
}

func (r *postRepository) CountLikes(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

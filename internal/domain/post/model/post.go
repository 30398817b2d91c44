package model

import (
	"time"

	baseModel "trust_feed/pkg/model"
)

const (
	MaxContentLength = 300
	// RedactedContent 作者账号已删除时对非作者展示的内容
	RedactedContent = "[removed]"
)

// Post 动态模型
// Content 在 NegativityLevel == 0 时必须与提交的原文一致
type Post struct {
	baseModel.BaseModel
	AuthorID        *string `gorm:"type:uuid;index" json:"authorId"` // 作者账号删除后置空
	Content         string  `gorm:"type:text;not null" json:"content"`
	NegativityLevel int     `gorm:"not null;default:0;check:chk_posts_negativity_level,negativity_level BETWEEN 0 AND 3" json:"negativityLevel"`
	VisibilityLevel *int    `gorm:"check:chk_posts_visibility_level,visibility_level BETWEEN 1 AND 5" json:"visibilityLevel"`
	ParentID        *string `gorm:"type:uuid;index" json:"parentId"` // 顶层动态为空，回复时指向父动态
}

// Like 点赞，(UserID, PostID) 唯一
type Like struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"userId"`
	PostID    string    `gorm:"primaryKey;type:uuid;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author 动态作者的最小信息
type Author struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	TrustScore int    `json:"trustScore"`
}

// PostWithAuthor 动态及其作者；作者不存在时 Author 为 nil
type PostWithAuthor struct {
	Post
	Author *Author
}

// AuthorRemoved 作者账号是否已不存在
func (p *PostWithAuthor) AuthorRemoved() bool {
	return p.Author == nil
}

// IsAuthor 判断 userID 是否为作者
func (p *Post) IsAuthor(userID string) bool {
	return p.AuthorID != nil && userID != "" && *p.AuthorID == userID
}

// PostView 返回给客户端的动态
type PostView struct {
	ID              string    `json:"id"`
	AuthorID        *string   `json:"authorId"`
	AuthorNickname  string    `json:"authorNickname,omitempty"`
	AuthorRemoved   bool      `json:"authorRemoved"`
	Content         string    `json:"content"`
	Redacted        bool      `json:"redacted"`
	NegativityLevel int       `json:"negativityLevel"`
	VisibilityLevel *int      `json:"visibilityLevel"`
	ParentID        *string   `json:"parentId"`
	LikeCount       int64     `json:"likeCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SubmitResult submitPost / editPost 的结果
type SubmitResult struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	NegativityLevel int    `json:"negativityLevel"`
	VisibilityLevel int    `json:"visibilityLevel"`
	// AuthorTrust 应用负面惩罚后的作者信任分
	AuthorTrust int `json:"authorTrust"`
}

// LikeResult likePost / unlikePost 的结果
type LikeResult struct {
	Liked    bool `json:"liked"`
	SelfLike bool `json:"selfLike"`
}

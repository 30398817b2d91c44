package service

import "trust_feed/internal/domain/post/model"

// CanView 可见性判断：作者本人、未设置可见等级、或观看者等级不低于动态的可见等级
func CanView(viewerID string, post *model.Post, viewerTier int) bool {
	if post.IsAuthor(viewerID) {
		return true
	}
	if post.VisibilityLevel == nil {
		return true
	}
	return viewerTier >= *post.VisibilityLevel
}

// present 按观看者生成展示结构，作者已删除的动态对非作者脱敏
func present(viewerID string, p *model.PostWithAuthor, likes int64) model.PostView {
	v := model.PostView{
		ID:              p.ID,
		AuthorID:        p.AuthorID,
		AuthorRemoved:   p.AuthorRemoved(),
		Content:         p.Content,
		NegativityLevel: p.NegativityLevel,
		VisibilityLevel: p.VisibilityLevel,
		ParentID:        p.ParentID,
		LikeCount:       likes,
		CreatedAt:       p.CreatedAt,
	}
	if p.Author != nil {
		v.AuthorNickname = p.Author.Nickname
	}
	if p.AuthorRemoved() && !p.IsAuthor(viewerID) {
		v.Content = model.RedactedContent
		v.Redacted = true
		v.AuthorID = nil
	}
	return v
}

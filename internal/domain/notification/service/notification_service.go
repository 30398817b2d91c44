package service

import (
	"context"

	"trust_feed/internal/domain/notification/model"
	"trust_feed/internal/domain/notification/repository"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/pkg/logger"
	"trust_feed/pkg/utils"

	"go.uber.org/zap"
)

// Notifier 其他模块用来创建通知，失败只记录日志
type Notifier interface {
	Notify(ctx context.Context, recipientID, content string)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, recipientID string, unreadOnly bool, p utils.Pagination) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, recipientID, id string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, content string) {
	if recipientID == "" {
		return
	}
	n := &model.Notification{RecipientID: recipientID, Content: content}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Log.Warn("create notification failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

func (s *notificationService) List(ctx context.Context, recipientID string, unreadOnly bool, p utils.Pagination) ([]model.Notification, int64, error) {
	offset := p.Offset()
	list, total, err := s.repo.List(ctx, recipientID, unreadOnly, offset, p.Limit)
	if err != nil {
		return nil, 0, apperr.Persistence("notification.list", err)
	}
	return list, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, id string) error {
	n, err := s.repo.MarkRead(ctx, recipientID, id)
	if err != nil {
		return apperr.Persistence("notification.markRead", err)
	}
	if n == 0 {
		return apperr.NotFound("notification.markRead", "notification not found")
	}
	return nil
}

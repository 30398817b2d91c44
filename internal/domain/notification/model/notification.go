package model

import baseModel "trust_feed/pkg/model"

// Notification 站内通知，只负责创建，推送不在本服务内
type Notification struct {
	baseModel.BaseModel
	RecipientID string `gorm:"type:uuid;not null;index:idx_notifications_recipient" json:"recipientId"`
	Content     string `gorm:"type:text;not null" json:"content"`
	IsRead      bool   `gorm:"not null;default:false" json:"isRead"`
}

// Package testutil 测试用的内存数据库与分类服务 mock
package testutil

import (
	"context"
	"testing"

	notificationModel "trust_feed/internal/domain/notification/model"
	postModel "trust_feed/internal/domain/post/model"
	profileModel "trust_feed/internal/domain/profile/model"
	reportModel "trust_feed/internal/domain/report/model"
	"trust_feed/internal/pkg/oracle"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 创建迁移好的 sqlite 内存数据库
// 内存库每个连接都是独立的库，所以只允许一个连接
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&profileModel.Profile{},
		&postModel.Post{},
		&postModel.Like{},
		&reportModel.Report{},
		&notificationModel.Notification{},
	))
	return db
}

// SeedProfile 创建指定信任分的用户
func SeedProfile(t *testing.T, db *gorm.DB, id, nickname string, score int) *profileModel.Profile {
	t.Helper()
	p := &profileModel.Profile{Nickname: nickname, TrustScore: score}
	p.ID = id
	require.NoError(t, db.Create(p).Error)
	return p
}

// TrustOf 直接读取信任分
func TrustOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var p profileModel.Profile
	require.NoError(t, db.Unscoped().Select("trust_score").Where("id = ?", id).Take(&p).Error)
	return p.TrustScore
}

// CountNotifications 某用户收到的通知数
func CountNotifications(t *testing.T, db *gorm.DB, recipientID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&notificationModel.Notification{}).Where("recipient_id = ?", recipientID).Count(&n).Error)
	return n
}

// FailWrites 让之后对 table 的 INSERT 和 UPDATE 都返回 err，用来模拟事务中途的存储故障
func FailWrites(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(err)
		}
	}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("testutil:fail_create_"+table, fail))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("testutil:fail_update_"+table, fail))
}

// MockOracle testify 实现的 ClassificationOracle
type MockOracle struct {
	mock.Mock
}

var _ oracle.ClassificationOracle = (*MockOracle)(nil)

func (m *MockOracle) ClassifyAndRewrite(ctx context.Context, content string) (oracle.Classification, error) {
	args := m.Called(ctx, content)
	return args.Get(0).(oracle.Classification), args.Error(1)
}

func (m *MockOracle) JudgeReport(ctx context.Context, req oracle.JudgeRequest) (oracle.Judgement, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(oracle.Judgement), args.Error(1)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	notificationRepository "trust_feed/internal/domain/notification/repository"
	notificationService "trust_feed/internal/domain/notification/service"
	"trust_feed/internal/domain/profile/model"
	"trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/pkg/apperr"
	"trust_feed/internal/pkg/oracle"
	"trust_feed/internal/pkg/testutil"
	"trust_feed/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const userID = "cccccccc-0000-0000-0000-000000000001"

func setup(t *testing.T) (ProfileService, *gorm.DB, *testutil.MockOracle) {
	db := testutil.NewDB(t)
	o := new(testutil.MockOracle)
	notifier := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(db))
	svc := NewProfileService(
		repository.NewProfileRepository(db),
		o,
		notifier,
		cache.NewMemoryCache(16, time.Minute),
		Options{InitialTrust: 50, RankingCacheTTL: time.Minute},
	)
	return svc, db, o
}

func TestCreateProfile(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	v, err := svc.CreateProfile(ctx, userID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 50, v.TrustScore)
	assert.Equal(t, 2, v.CitizenTier)
	assert.False(t, v.Suspended)
	assert.Equal(t, 50, testutil.TrustOf(t, db, userID))

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.CreateProfile(ctx, userID, "alice")
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("empty nickname", func(t *testing.T) {
		_, err := svc.CreateProfile(ctx, "cccccccc-0000-0000-0000-000000000009", " ")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("no identity", func(t *testing.T) {
		_, err := svc.CreateProfile(ctx, "", "x")
		assert.ErrorIs(t, err, apperr.ErrAuthenticationRequired)
	})
}

func TestGetProfile(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	testutil.SeedProfile(t, db, userID, "zero", 0)
	v, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, v.Suspended)
	assert.Equal(t, 1, v.CitizenTier)

	_, err = svc.GetProfile(ctx, "cccccccc-0000-0000-0000-000000000404")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateNickname(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted", func(t *testing.T) {
		svc, db, o := setup(t)
		testutil.SeedProfile(t, db, userID, "old", 50)
		o.On("ClassifyAndRewrite", mock.Anything, "sunny").
			Return(oracle.Classification{RewrittenContent: "sunny", VisibilityLevel: 1}, nil).Once()

		v, err := svc.UpdateNickname(ctx, userID, "sunny")
		require.NoError(t, err)
		assert.Equal(t, "sunny", v.Nickname)
		assert.Equal(t, 50, v.TrustScore)
		assert.Zero(t, testutil.CountNotifications(t, db, userID))
		o.AssertExpectations(t)
	})

	t.Run("rejected costs trust and notifies", func(t *testing.T) {
		svc, db, o := setup(t)
		testutil.SeedProfile(t, db, userID, "old", 3)
		o.On("ClassifyAndRewrite", mock.Anything, "hater").
			Return(oracle.Classification{RewrittenContent: "lover", NegativityLevel: 2, VisibilityLevel: 3}, nil).Once()

		_, err := svc.UpdateNickname(ctx, userID, "hater")
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, 0, testutil.TrustOf(t, db, userID))
		assert.Equal(t, int64(1), testutil.CountNotifications(t, db, userID))

		v, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "old", v.Nickname)
	})

	t.Run("classifier failure leaves nickname unchanged", func(t *testing.T) {
		svc, db, o := setup(t)
		testutil.SeedProfile(t, db, userID, "old", 50)
		o.On("ClassifyAndRewrite", mock.Anything, "new").
			Return(oracle.Classification{}, oracle.ErrUnavailable).Once()

		_, err := svc.UpdateNickname(ctx, userID, "new")
		assert.ErrorIs(t, err, apperr.ErrClassifier)
		assert.True(t, apperr.Retryable(err))
		assert.Equal(t, 50, testutil.TrustOf(t, db, userID))

		v, err := svc.GetProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "old", v.Nickname)
	})

	t.Run("unknown profile skips oracle", func(t *testing.T) {
		svc, _, o := setup(t)
		_, err := svc.UpdateNickname(ctx, userID, "new")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		o.AssertNotCalled(t, "ClassifyAndRewrite", mock.Anything, mock.Anything)
	})
}

func TestRankingIsCached(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()
	testutil.SeedProfile(t, db, "cccccccc-0000-0000-0000-000000000011", "a", 70)
	testutil.SeedProfile(t, db, "cccccccc-0000-0000-0000-000000000012", "b", 90)

	rows, err := svc.Ranking(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Nickname)

	// 缓存期内新用户不会出现
	testutil.SeedProfile(t, db, "cccccccc-0000-0000-0000-000000000013", "c", 99)
	rows, err = svc.Ranking(ctx, model.MetricTrustScore, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = svc.Ranking(ctx, "followers", 10)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

package repository

import (
	"context"
	"testing"

	"trust_feed/internal/domain/report/model"
	"trust_feed/internal/pkg/testutil"
	"trust_feed/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	postID = "ffffffff-0000-0000-0000-000000000001"
	alice  = "ffffffff-0000-0000-0000-0000000000a1"
	bob    = "ffffffff-0000-0000-0000-0000000000b1"
)

func newReport(reporter string) *model.Report {
	return &model.Report{
		PostID:         postID,
		ReporterID:     reporter,
		Reason:         "spam",
		Explanation:    "looks fine",
		Recommendation: "watch",
	}
}

func TestReportRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, postID, alice)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, newReport(alice)))
	require.NoError(t, repo.Create(ctx, newReport(bob)))

	exists, err = repo.Exists(ctx, postID, alice)
	require.NoError(t, err)
	assert.True(t, exists)

	ids, err := repo.PriorReporterIDs(ctx, postID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice, bob}, ids)

	list, total, err := repo.ListByPost(ctx, postID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 1)
}

func TestReportRepositoryUniquePerReporter(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newReport(alice)))
	err := repo.Create(ctx, newReport(alice))
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	var n int64
	require.NoError(t, db.Model(&model.Report{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestReportRecommendationCheck(t *testing.T) {
	db := testutil.NewDB(t)
	r := newReport(alice)
	r.Recommendation = "delete"
	assert.Error(t, NewReportRepository(db).Create(context.Background(), r))
}

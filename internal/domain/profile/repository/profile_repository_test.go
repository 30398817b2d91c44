package repository

import (
	"context"
	"sync"
	"testing"

	postModel "trust_feed/internal/domain/post/model"
	"trust_feed/internal/domain/profile/model"
	"trust_feed/internal/pkg/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestApplyDeltaClamps(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	testutil.SeedProfile(t, db, "11111111-1111-1111-1111-111111111111", "alice", 50)
	id := "11111111-1111-1111-1111-111111111111"

	tests := []struct {
		name  string
		delta int
		want  int
	}{
		{"penalty", -5, 45},
		{"reward", 10, 55},
		{"clamped at max", 500, 100},
		{"stays at max", 1, 100},
		{"clamped at min", -1000, 0},
		{"stays at min", -1, 0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ApplyDelta(ctx, id, tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, testutil.TrustOf(t, db, id))
		})
	}
}

func TestApplyDeltaProfileNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.ApplyDelta(context.Background(), "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplyDeltaConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	id := "22222222-2222-2222-2222-222222222222"
	testutil.SeedProfile(t, db, id, "bob", 10)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(context.Background(), id, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, testutil.TrustOf(t, db, id))
}

// 账本必须是单条条件 UPDATE，不能先在应用里读出来再写回
func TestApplyDeltaIsSingleConditionalUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "trust_score"=CASE WHEN trust_score \+ \$1 < 0 THEN 0 WHEN trust_score \+ \$2 > 100 THEN 100 ELSE trust_score \+ \$3 END WHERE id = \$4`).
		WithArgs(-7, -7, -7, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "trust_score" FROM "profiles" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"trust_score"}).AddRow(43))
	mock.ExpectCommit()

	score, err := NewProfileRepository(db).ApplyDelta(context.Background(), "u1", -7)
	require.NoError(t, err)
	assert.Equal(t, 43, score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaRollsBackWhenMissing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = NewProfileRepository(db).ApplyDelta(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	a := testutil.SeedProfile(t, db, "aaaaaaaa-0000-0000-0000-000000000001", "alice", 80)
	b := testutil.SeedProfile(t, db, "aaaaaaaa-0000-0000-0000-000000000002", "bob", 30)
	testutil.SeedProfile(t, db, "aaaaaaaa-0000-0000-0000-000000000003", "carol", 60)

	t.Run("create clamps initial score", func(t *testing.T) {
		p := &model.Profile{Nickname: "dave", TrustScore: 150}
		p.ID = "aaaaaaaa-0000-0000-0000-000000000004"
		require.NoError(t, repo.Create(ctx, p))
		assert.Equal(t, 100, testutil.TrustOf(t, db, p.ID))
	})

	t.Run("score", func(t *testing.T) {
		s, err := repo.Score(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 80, s)
	})

	t.Run("update nickname", func(t *testing.T) {
		require.NoError(t, repo.UpdateNickname(ctx, b.ID, "bobby"))
		p, err := repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "bobby", p.Nickname)

		assert.ErrorIs(t, repo.UpdateNickname(ctx, "missing", "x"), gorm.ErrRecordNotFound)
	})

	t.Run("count and sum", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		sum, err := repo.SumTrust(ctx, []string{a.ID, b.ID, "missing"})
		require.NoError(t, err)
		assert.Equal(t, int64(110), sum)

		sum, err = repo.SumTrust(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("soft deleted profile is not found", func(t *testing.T) {
		require.NoError(t, db.Delete(&model.Profile{}, "id = ?", "aaaaaaaa-0000-0000-0000-000000000004").Error)
		_, err := repo.GetByID(ctx, "aaaaaaaa-0000-0000-0000-000000000004")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		_, err = repo.ApplyDelta(ctx, "aaaaaaaa-0000-0000-0000-000000000004", 1)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRanking(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	alice := testutil.SeedProfile(t, db, "bbbbbbbb-0000-0000-0000-000000000001", "alice", 40)
	bob := testutil.SeedProfile(t, db, "bbbbbbbb-0000-0000-0000-000000000002", "bob", 95)
	carol := testutil.SeedProfile(t, db, "bbbbbbbb-0000-0000-0000-000000000003", "carol", 60)

	newPost := func(author string) *postModel.Post {
		p := &postModel.Post{AuthorID: &author, Content: "hello"}
		require.NoError(t, db.Create(p).Error)
		return p
	}
	like := func(user, post string) {
		require.NoError(t, db.Create(&postModel.Like{UserID: user, PostID: post}).Error)
	}

	// alice: 3 posts, 3 likes; bob: 1 post, 2 likes; carol: none
	a1, a2 := newPost(alice.ID), newPost(alice.ID)
	newPost(alice.ID)
	b1 := newPost(bob.ID)
	like(bob.ID, a1.ID)
	like(carol.ID, a1.ID)
	like(carol.ID, a2.ID)
	like(alice.ID, b1.ID)
	like(carol.ID, b1.ID)

	ids := func(rows []model.RankingRow) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Nickname)
		}
		return out
	}

	t.Run("by trust score", func(t *testing.T) {
		rows, err := repo.Ranking(ctx, model.MetricTrustScore, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "carol", "alice"}, ids(rows))
		assert.Equal(t, 5, rows[0].CitizenTier)
	})

	t.Run("by num posts", func(t *testing.T) {
		rows, err := repo.Ranking(ctx, model.MetricNumPosts, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob", "carol"}, ids(rows))
		assert.Equal(t, int64(3), rows[0].NumPosts)
	})

	t.Run("by avg likes", func(t *testing.T) {
		rows, err := repo.Ranking(ctx, model.MetricAvgLikes, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "alice", "carol"}, ids(rows))
		assert.InDelta(t, 2.0, rows[0].AvgLikes, 0.001)
		assert.InDelta(t, 1.0, rows[1].AvgLikes, 0.001)
		assert.Zero(t, rows[2].AvgLikes)
	})

	t.Run("limit", func(t *testing.T) {
		rows, err := repo.Ranking(ctx, model.MetricTotalLikes, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "alice", rows[0].Nickname)
		assert.Equal(t, int64(3), rows[0].TotalLikes)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, err := repo.Ranking(ctx, "followers", 10)
		assert.Error(t, err)
	})
}

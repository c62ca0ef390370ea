package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Couple-App/internal/domain/model"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestLocationSamplesRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLocationSamplesRepository()

	_, err := repo.Latest(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	add := func(id, owner string, at time.Time) {
		require.NoError(t, repo.Append(ctx, &model.LocationSample{ID: id, OwnerUserID: owner, CapturedAt: at}))
	}
	add("s1", "u1", t0.Add(2*time.Hour))
	add("s2", "u1", t0)
	add("s3", "u2", t0.Add(time.Hour))
	add("s4", "u1", t0.Add(2*time.Hour))
	add("s5", "u3", t0.Add(time.Hour))

	t.Run("同時刻なら後から挿入したものが最新", func(t *testing.T) {
		latest, err := repo.Latest(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "s4", latest.ID)
	})

	t.Run("範囲は開始を含み終了を含まない", func(t *testing.T) {
		got, err := repo.Range(ctx, []string{"u1", "u2"}, t0, t0.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "s2", got[0].ID)
		assert.Equal(t, "s3", got[1].ID)
	})

	t.Run("直近は新しい順", func(t *testing.T) {
		got, err := repo.Recent(ctx, "u1", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "s4", got[0].ID)
		assert.Equal(t, "s1", got[1].ID)
	})
}

func TestCheckpointsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCheckpointsRepository()

	_, err := repo.MostRecent(ctx, "c1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	for i, at := range []time.Time{t0.Add(time.Hour), t0, t0.Add(24 * time.Hour)} {
		require.NoError(t, repo.Append(ctx, &model.CoLocationCheckpoint{
			ID: string(rune('a' + i)), CoupleID: "c1", CapturedAt: at,
		}))
	}
	require.NoError(t, repo.Append(ctx, &model.CoLocationCheckpoint{ID: "z", CoupleID: "c2", CapturedAt: t0}))

	last, err := repo.MostRecent(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c", last.ID)

	day, err := repo.Range(ctx, "c1", t0, t0.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "b", day[0].ID)
	assert.Equal(t, "a", day[1].ID)

	assert.Equal(t, 3, repo.Count("c1"))
	assert.Equal(t, 1, repo.Count("c2"))
}

func TestCouplesRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCouplesRepository(model.Couple{CoupleID: "c1", User1ID: "u1", User2ID: "u2"})

	c, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u2", c.User2ID)

	_, err = repo.GetByID(ctx, "c2")
	assert.ErrorIs(t, err, model.ErrNotFound)

	repo.Put(model.Couple{CoupleID: "c2", User1ID: "u3", User2ID: "u4"})
	_, err = repo.GetByID(ctx, "c2")
	assert.NoError(t, err)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/model"
)

func stamp(t time.Time) string { return t.Format(time.RFC3339) }

// thisMonth returns a timestamp n minutes into the current calendar month,
// so month-dependent assertions hold whatever the wall clock says.
func thisMonth(n int) string {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return stamp(start.Add(time.Duration(n) * time.Minute))
}

func TestLogAndFeedNewestFirst(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	now := time.Now()
	for _, ts := range []time.Time{now.Add(-2 * time.Hour), now.Add(-1 * time.Hour), now.Add(-30 * time.Minute)} {
		require.NoError(t, env.activity.Log(ctx, &model.Activity{
			Timestamp: stamp(ts), UserEmail: "ana@x.com", BabyName: "Leo", Type: model.ActivityFeeding,
		}))
	}

	feed, err := env.activity.Feed(ctx, "ana@x.com", 0)
	require.NoError(t, err)
	require.Len(t, feed.Activities, 3)
	assert.Equal(t, stamp(now.Add(-30*time.Minute)), feed.Activities[0].Timestamp)
	assert.Equal(t, stamp(now.Add(-2*time.Hour)), feed.Activities[2].Timestamp)
}

func TestMonthlyCountIgnoresLimit(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.activity.Log(ctx, &model.Activity{
			Timestamp: thisMonth(10 + i), UserEmail: "ana@x.com", Type: model.ActivitySleep,
		}))
	}
	// An event from two months ago does not count toward the month.
	require.NoError(t, env.activityRepo.SaveActivity(ctx, &model.Activity{
		Timestamp: stamp(time.Now().AddDate(0, -2, 0)), UserEmail: "ana@x.com", Type: model.ActivitySleep,
	}))

	feed, err := env.activity.Feed(ctx, "ana@x.com", 2)
	require.NoError(t, err)
	assert.Len(t, feed.Activities, 2)
	assert.Equal(t, 3, feed.MonthlyCount)
}

func TestMonthlyCapForFreeUsers(t *testing.T) {
	env := newTestEnv(t, 2, 3)
	ctx := context.Background()
	env.register(t, "free@x.com", "F")
	env.register(t, "paid@x.com", "P")
	require.NoError(t, env.users.UpgradeToPremium(ctx, "paid@x.com"))

	for i := 0; i < 2; i++ {
		require.NoError(t, env.activity.Log(ctx, &model.Activity{UserEmail: "free@x.com", Type: model.ActivityDiaper}))
	}
	err := env.activity.Log(ctx, &model.Activity{UserEmail: "free@x.com", Type: model.ActivityDiaper})
	assert.ErrorIs(t, err, ErrMonthlyLimitReached)

	// Premium users are not capped.
	for i := 0; i < 5; i++ {
		require.NoError(t, env.activity.Log(ctx, &model.Activity{UserEmail: "paid@x.com", Type: model.ActivityDiaper}))
	}
}

func TestUpdateKeepsTotalCount(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	orig := stamp(time.Now().Add(-time.Hour))
	require.NoError(t, env.activity.Log(ctx, &model.Activity{
		Timestamp: orig, UserEmail: "ana@x.com", Type: model.ActivityGrowth,
		Details: map[string]interface{}{"peso": 8.2},
	}))

	newStamp := stamp(time.Now())
	require.NoError(t, env.activity.Update(ctx, "ana@x.com", orig, &model.Activity{
		Timestamp: newStamp, Type: model.ActivityGrowth,
		Details: map[string]interface{}{"peso": 8.4},
	}))

	feed, err := env.activity.Feed(ctx, "ana@x.com", 0)
	require.NoError(t, err)
	require.Len(t, feed.Activities, 1)
	assert.Equal(t, newStamp, feed.Activities[0].Timestamp)
	assert.Equal(t, 8.4, feed.Activities[0].Details["peso"])
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "ana@x.com", "Ana")

	ts1 := thisMonth(10)
	ts2 := thisMonth(20)
	for _, ts := range []string{ts1, ts2} {
		require.NoError(t, env.activity.Log(ctx, &model.Activity{Timestamp: ts, UserEmail: "ana@x.com", Type: model.ActivityEsfinteres}))
	}

	require.NoError(t, env.activity.Delete(ctx, "ana@x.com", ts1))

	feed, err := env.activity.Feed(ctx, "ana@x.com", 0)
	require.NoError(t, err)
	require.Len(t, feed.Activities, 1)
	assert.Equal(t, ts2, feed.Activities[0].Timestamp)
	assert.Equal(t, 1, feed.MonthlyCount)

	assert.ErrorIs(t, env.activity.Delete(ctx, "ana@x.com", ts1), ErrActivityNotFound)
}

func TestSharedFeedFallsBackWithoutFamily(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "solo@x.com", "Solo")
	require.NoError(t, env.activity.Log(ctx, &model.Activity{UserEmail: "solo@x.com", Type: model.ActivityFeeding}))

	personal, err := env.activity.Feed(ctx, "solo@x.com", 0)
	require.NoError(t, err)
	shared, err := env.activity.SharedFeed(ctx, "solo@x.com", 0)
	require.NoError(t, err)
	assert.Equal(t, personal, shared)
}

func TestSharedFeedMergesFamilyActivities(t *testing.T) {
	env := newTestEnv(t, 50, 3)
	ctx := context.Background()
	env.register(t, "owner@x.com", "O")
	env.register(t, "m@x.com", "M")

	_, err := env.family.Create(ctx, "owner@x.com", "Leo", "")
	require.NoError(t, err)
	require.NoError(t, env.family.Invite(ctx, "owner@x.com", "m@x.com", model.RolePadre))

	require.NoError(t, env.activity.Log(ctx, &model.Activity{UserEmail: "owner@x.com", Type: model.ActivitySleep}))
	require.NoError(t, env.activity.Log(ctx, &model.Activity{UserEmail: "m@x.com", Type: model.ActivityFeeding}))

	shared, err := env.activity.SharedFeed(ctx, "owner@x.com", 0)
	require.NoError(t, err)
	assert.Len(t, shared.Activities, 2)
	// The monthly count only covers the caller's own events.
	assert.Equal(t, 1, shared.MonthlyCount)
}

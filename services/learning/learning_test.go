package learning_test

import (
	"context"
	"testing"

	"learnly/apperrors"
	"learnly/models"
	"learnly/models/training"
	"learnly/ordering"
	"learnly/services/learning"
	"learnly/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "student@example.com", models.RoleUser)
	tr := testutil.SeedTraining(t, db, "Go", training.StatusPublished, 0)
	mods := testutil.SeedModules(t, db, tr.ID, "Intro")
	testutil.SeedLessons(t, db, mods[0].ID, "One", "Two")

	first, created, err := learning.Grant(db, user.ID, tr.ID, training.SourceFree, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, first.TotalLessons)

	second, created, err := learning.Grant(db, user.ID, tr.ID, training.SourceFree, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestCompleteLessonTracksProgress(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "student@example.com", models.RoleUser)
	tr := testutil.SeedTraining(t, db, "Go", training.StatusPublished, 0)
	mods := testutil.SeedModules(t, db, tr.ID, "Intro", "Advanced")
	l1 := testutil.SeedLessons(t, db, mods[0].ID, "One")
	l2 := testutil.SeedLessons(t, db, mods[1].ID, "Two")

	_, _, err := learning.Grant(db, user.ID, tr.ID, training.SourceFree, nil)
	require.NoError(t, err)

	e, err := learning.CompleteLesson(ctx, db, user.ID, tr.ID, l1[0].ID)
	require.NoError(t, err)
	assert.Equal(t, training.EnrollmentInProgress, e.Status)
	assert.Equal(t, 50.0, e.Progress)

	// completing twice does not double count
	e, err = learning.CompleteLesson(ctx, db, user.ID, tr.ID, l1[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.CompletedLessons)

	e, err = learning.CompleteLesson(ctx, db, user.ID, tr.ID, l2[0].ID)
	require.NoError(t, err)
	assert.Equal(t, training.EnrollmentCompleted, e.Status)
	assert.Equal(t, 100.0, e.Progress)
	assert.NotNil(t, e.CompletedAt)
}

func TestCompleteLessonRequiresEnrollmentAndOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "student@example.com", models.RoleUser)
	tr := testutil.SeedTraining(t, db, "Go", training.StatusPublished, 0)
	other := testutil.SeedTraining(t, db, "Rust", training.StatusPublished, 0)
	mods := testutil.SeedModules(t, db, tr.ID, "Intro")
	otherMods := testutil.SeedModules(t, db, other.ID, "Intro")
	lessons := testutil.SeedLessons(t, db, mods[0].ID, "One")
	foreign := testutil.SeedLessons(t, db, otherMods[0].ID, "Elsewhere")

	_, err := learning.CompleteLesson(ctx, db, user.ID, tr.ID, lessons[0].ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, _, err = learning.Grant(db, user.ID, tr.ID, training.SourceFree, nil)
	require.NoError(t, err)

	_, err = learning.CompleteLesson(ctx, db, user.ID, tr.ID, foreign[0].ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProgressFollowsDeletedLessons(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "student@example.com", models.RoleUser)
	tr := testutil.SeedTraining(t, db, "Go", training.StatusPublished, 0)
	mods := testutil.SeedModules(t, db, tr.ID, "Intro")
	lessons := testutil.SeedLessons(t, db, mods[0].ID, "One", "Two")

	_, _, err := learning.Grant(db, user.ID, tr.ID, training.SourceFree, nil)
	require.NoError(t, err)
	_, err = learning.CompleteLesson(ctx, db, user.ID, tr.ID, lessons[0].ID)
	require.NoError(t, err)

	lessonSet := ordering.New(db, ordering.Lessons)
	require.NoError(t, lessonSet.Remove(ctx, mods[0].ID, lessons[1].ID))

	e, done, err := learning.Progress(ctx, db, user.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, training.EnrollmentCompleted, e.Status)
	assert.Equal(t, []uint{lessons[0].ID}, done)
}

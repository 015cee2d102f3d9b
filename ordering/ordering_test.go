package ordering_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"learnly/apperrors"
	"learnly/models"
	"learnly/models/training"
	"learnly/ordering"
	"learnly/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var modules = ordering.Modules

func setup(t *testing.T) (*gorm.DB, *ordering.Manager, *training.Training, []training.Module) {
	t.Helper()
	db := testutil.NewDB(t)
	tr := testutil.SeedTraining(t, db, "Go basics", training.StatusDraft, 0)
	mods := testutil.SeedModules(t, db, tr.ID, "A", "B", "C")
	return db, ordering.New(db, modules), tr, mods
}

func appendModule(t *testing.T, db *gorm.DB, m *ordering.Manager, trainingID uint, title string) (training.Module, error) {
	t.Helper()
	var mod training.Module
	_, err := m.Append(context.Background(), trainingID, func(tx *gorm.DB, index int) error {
		mod = training.Module{TrainingID: trainingID, Title: title, OrderIndex: index}
		return tx.Create(&mod).Error
	})
	return mod, err
}

// assertContiguous checks that the active indexes are exactly 0..n-1.
func assertContiguous(t *testing.T, db *gorm.DB, trainingID uint) {
	t.Helper()
	var idx []int
	require.NoError(t, models.Active(db.Model(&training.Module{})).Where("training_id = ?", trainingID).Pluck("order_index", &idx).Error)
	sort.Ints(idx)
	for i, v := range idx {
		assert.Equal(t, i, v, "order_index values must be contiguous: %v", idx)
	}
}

func TestAppendOnEmptyParentStartsAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	tr := testutil.SeedTraining(t, db, "Empty", training.StatusDraft, 0)
	m := ordering.New(db, modules)

	mod, err := appendModule(t, db, m, tr.ID, "First")
	require.NoError(t, err)
	assert.Equal(t, 0, mod.OrderIndex)
}

func TestAppendPlacesNewChildLast(t *testing.T) {
	db, m, tr, _ := setup(t)

	mod, err := appendModule(t, db, m, tr.ID, "D")
	require.NoError(t, err)
	assert.Equal(t, 3, mod.OrderIndex)
	assert.Equal(t, []string{"A", "B", "C", "D"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestAppendIgnoresDeletedSiblings(t *testing.T) {
	db, m, tr, mods := setup(t)
	require.NoError(t, m.Remove(context.Background(), tr.ID, mods[2].ID))

	mod, err := appendModule(t, db, m, tr.ID, "D")
	require.NoError(t, err)
	assert.Equal(t, 2, mod.OrderIndex)
}

func TestAppendToMissingParent(t *testing.T) {
	db := testutil.NewDB(t)
	m := ordering.New(db, modules)

	_, err := appendModule(t, db, m, 999, "X")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var count int64
	db.Model(&training.Module{}).Count(&count)
	assert.Zero(t, count)
}

func TestAppendLessonUnderDeletedTraining(t *testing.T) {
	db, _, tr, mods := setup(t)
	lessons := ordering.New(db, ordering.Lessons)
	appendLesson := func() error {
		_, err := lessons.Append(context.Background(), mods[0].ID, func(tx *gorm.DB, index int) error {
			return tx.Create(&training.Lesson{ModuleID: mods[0].ID, Title: "L", ContentType: training.ContentVideo, OrderIndex: index}).Error
		})
		return err
	}
	require.NoError(t, appendLesson())

	// the module row is still active; only its training is gone
	require.NoError(t, db.Model(tr).Updates(models.Tombstone(time.Now())).Error)

	err := appendLesson()
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	var count int64
	db.Model(&training.Lesson{}).Where("module_id = ?", mods[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMoveToFront(t *testing.T) {
	db, m, tr, mods := setup(t)

	require.NoError(t, m.MoveTo(context.Background(), tr.ID, mods[2].ID, 0))

	assert.Equal(t, []string{"C", "A", "B"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestMoveToBack(t *testing.T) {
	db, m, tr, mods := setup(t)

	require.NoError(t, m.MoveTo(context.Background(), tr.ID, mods[0].ID, 2))

	assert.Equal(t, []string{"B", "C", "A"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestMoveToSameIndexIsNoop(t *testing.T) {
	db, m, tr, mods := setup(t)
	ctx := context.Background()

	require.NoError(t, m.MoveTo(ctx, tr.ID, mods[2].ID, 0))
	var before []training.Module
	require.NoError(t, db.Order("id").Find(&before).Error)

	require.NoError(t, m.MoveTo(ctx, tr.ID, mods[2].ID, 0))
	var after []training.Module
	require.NoError(t, db.Order("id").Find(&after).Error)

	for i := range before {
		assert.Equal(t, before[i].OrderIndex, after[i].OrderIndex)
		assert.Equal(t, before[i].UpdatedAt, after[i].UpdatedAt)
	}
}

func TestMoveToRejectsOutOfRangeTarget(t *testing.T) {
	db, m, tr, mods := setup(t)

	err := m.MoveTo(context.Background(), tr.ID, mods[0].ID, 3)
	require.Error(t, err)
	appErr := apperrors.As(err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "order_index")

	assert.Equal(t, []string{"A", "B", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
}

func TestMoveToChildOfAnotherParent(t *testing.T) {
	db, m, tr, _ := setup(t)
	other := testutil.SeedTraining(t, db, "Other", training.StatusDraft, 0)
	foreign := testutil.SeedModules(t, db, other.ID, "X")

	err := m.MoveTo(context.Background(), tr.ID, foreign[0].ID, 0)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestMoveToDeletedChild(t *testing.T) {
	_, m, tr, mods := setup(t)
	ctx := context.Background()
	require.NoError(t, m.Remove(ctx, tr.ID, mods[1].ID))

	err := m.MoveTo(ctx, tr.ID, mods[1].ID, 0)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRemoveClosesGap(t *testing.T) {
	db, m, tr, mods := setup(t)

	require.NoError(t, m.Remove(context.Background(), tr.ID, mods[1].ID))

	var a, b, c training.Module
	require.NoError(t, db.First(&a, mods[0].ID).Error)
	require.NoError(t, db.First(&b, mods[1].ID).Error)
	require.NoError(t, db.First(&c, mods[2].ID).Error)

	assert.Equal(t, 0, a.OrderIndex)
	assert.Equal(t, 1, c.OrderIndex)
	assert.True(t, b.IsDeleted())
	assert.NotNil(t, b.DeletedAt)
	assert.Equal(t, 1, b.OrderIndex, "tombstoned rows keep their last index")

	assert.Equal(t, []string{"A", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestRemoveTwiceIsNotFound(t *testing.T) {
	_, m, tr, mods := setup(t)
	ctx := context.Background()

	require.NoError(t, m.Remove(ctx, tr.ID, mods[0].ID))
	err := m.Remove(ctx, tr.ID, mods[0].ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRemoveWithRollsBackOnError(t *testing.T) {
	db, m, tr, mods := setup(t)

	err := m.RemoveWith(context.Background(), tr.ID, mods[0].ID, func(tx *gorm.DB) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, []string{"A", "B", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestMoveWithRollsBackShiftOnError(t *testing.T) {
	db, m, tr, mods := setup(t)

	err := m.MoveWith(context.Background(), tr.ID, mods[2].ID, 0, func(tx *gorm.DB) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, []string{"A", "B", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
}

func TestMoveWithRunsAfterOnSameIndex(t *testing.T) {
	db, m, tr, mods := setup(t)

	err := m.MoveWith(context.Background(), tr.ID, mods[1].ID, 1, func(tx *gorm.DB) error {
		return tx.Model(&training.Module{}).Where("id = ?", mods[1].ID).Update("title", "B2").Error
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B2", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
}

func TestWithinRejectsForeignChild(t *testing.T) {
	db, m, tr, _ := setup(t)
	other := testutil.SeedTraining(t, db, "Other", training.StatusDraft, 0)
	foreign := testutil.SeedModules(t, db, other.ID, "X")

	called := false
	err := m.Within(context.Background(), tr.ID, foreign[0].ID, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, called)
}

func TestReorderAll(t *testing.T) {
	db, m, tr, mods := setup(t)

	err := m.ReorderAll(context.Background(), tr.ID, []uint{mods[2].ID, mods[0].ID, mods[1].ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)
}

func TestReorderAllRejectsPartialAndForeignLists(t *testing.T) {
	db, m, tr, mods := setup(t)
	other := testutil.SeedTraining(t, db, "Other", training.StatusDraft, 0)
	foreign := testutil.SeedModules(t, db, other.ID, "X")
	ctx := context.Background()

	cases := map[string][]uint{
		"nil":       nil,
		"partial":   {mods[1].ID, mods[0].ID},
		"foreign":   {mods[2].ID, mods[0].ID, foreign[0].ID},
		"duplicate": {mods[0].ID, mods[0].ID, mods[1].ID},
	}
	for name, ids := range cases {
		t.Run(name, func(t *testing.T) {
			err := m.ReorderAll(ctx, tr.ID, ids)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}

	assert.Equal(t, []string{"A", "B", "C"}, testutil.ActiveModuleTitles(t, db, tr.ID))
}

func TestMixedSequenceKeepsIndexesContiguous(t *testing.T) {
	db, m, tr, mods := setup(t)
	ctx := context.Background()

	d, err := appendModule(t, db, m, tr.ID, "D")
	require.NoError(t, err)
	require.NoError(t, m.MoveTo(ctx, tr.ID, d.ID, 1))
	require.NoError(t, m.Remove(ctx, tr.ID, mods[0].ID))
	e, err := appendModule(t, db, m, tr.ID, "E")
	require.NoError(t, err)
	require.NoError(t, m.MoveTo(ctx, tr.ID, e.ID, 0))
	require.NoError(t, m.Remove(ctx, tr.ID, mods[2].ID))

	assert.Equal(t, []string{"E", "D", "B"}, testutil.ActiveModuleTitles(t, db, tr.ID))
	assertContiguous(t, db, tr.ID)

	count, err := m.Count(ctx, tr.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestListReturnsActiveChildrenInOrder(t *testing.T) {
	_, m, tr, mods := setup(t)
	ctx := context.Background()
	require.NoError(t, m.MoveTo(ctx, tr.ID, mods[2].ID, 0))
	require.NoError(t, m.Remove(ctx, tr.ID, mods[1].ID))

	var got []training.Module
	require.NoError(t, m.List(ctx, tr.ID, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

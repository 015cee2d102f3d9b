// Package testutil opens throwaway SQLite databases and seeds rows for tests.
package testutil

import (
	"fmt"
	"testing"

	"learnly/config"
	"learnly/database"
	"learnly/models"
	"learnly/models/training"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory database, migrates it and installs it as
// the global database and config for the duration of the test.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := config.Default()
	cfg.DBDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	cfg.UploadDir = tb.TempDir()

	db, err := database.Open(cfg)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	prevCfg, prevDB := config.AppConfig, database.Database
	config.AppConfig = cfg
	database.Database = database.DbInstance{Db: db}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.AppConfig = prevCfg
		database.Database = prevDB
	})
	return db
}

const Password = "secret-password"

func SeedUser(tb testing.TB, db *gorm.DB, email, role string) *models.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &models.User{Name: "Test User", Email: email, Role: role, Password: string(hash)}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTraining(tb testing.TB, db *gorm.DB, name string, status training.Status, price float64) *training.Training {
	tb.Helper()
	t := &training.Training{Name: name, Slug: name, Category: "general", Status: status, Price: price}
	if err := db.Create(t).Error; err != nil {
		tb.Fatalf("seed training: %v", err)
	}
	return t
}

// SeedModules creates one module per title with consecutive indexes.
func SeedModules(tb testing.TB, db *gorm.DB, trainingID uint, titles ...string) []training.Module {
	tb.Helper()
	out := make([]training.Module, 0, len(titles))
	for i, title := range titles {
		m := training.Module{TrainingID: trainingID, Title: title, OrderIndex: i}
		if err := db.Create(&m).Error; err != nil {
			tb.Fatalf("seed module: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func SeedLessons(tb testing.TB, db *gorm.DB, moduleID uint, titles ...string) []training.Lesson {
	tb.Helper()
	out := make([]training.Lesson, 0, len(titles))
	for i, title := range titles {
		l := training.Lesson{
			ModuleID:    moduleID,
			Title:       title,
			ContentType: training.ContentVideo,
			VideoURL:    "https://videos.example.com/" + uuid.NewString(),
			OrderIndex:  i,
		}
		if err := db.Create(&l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return out
}

func SeedLandingPage(tb testing.TB, db *gorm.DB, userID uint, slug string, published bool) *models.LandingPage {
	tb.Helper()
	p := &models.LandingPage{
		UserID: userID,
		Kind:   models.LandingClient,
		Slug:   slug,
		Title:  "Landing " + slug,
		Status: models.LandingDraft,
	}
	if published {
		p.Status = models.LandingPublished
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed landing page: %v", err)
	}
	return p
}

// ActiveModuleTitles returns the titles of the active modules of a training in order.
func ActiveModuleTitles(tb testing.TB, db *gorm.DB, trainingID uint) []string {
	tb.Helper()
	var mods []training.Module
	if err := models.Active(db).Where("training_id = ?", trainingID).Order("order_index asc").Find(&mods).Error; err != nil {
		tb.Fatalf("list modules: %v", err)
	}
	titles := make([]string, len(mods))
	for i, m := range mods {
		titles[i] = m.Title
	}
	return titles
}

package dashboardController

import (
	"time"

	"learnly/database"
	"learnly/middleware"
	"learnly/models"
	"learnly/models/training"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type periodStats struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	NewUsers    int64     `json:"new_users"`
	Enrollments int64     `json:"enrollments"`
	Leads       int64     `json:"leads"`
	Payments    int64     `json:"approved_payments"`
	Revenue     float64   `json:"revenue"`
}

type stats struct {
	Trainings   map[string]int64 `json:"trainings"`
	Users       int64            `json:"users"`
	Enrollments int64            `json:"enrollments"`
	Completed   int64            `json:"completed_enrollments"`
	Leads       int64            `json:"leads"`
	Revenue     float64          `json:"revenue"`
	ThisMonth   periodStats      `json:"this_month"`
	LastMonth   periodStats      `json:"last_month"`
}

// Stats returns platform totals and month over month figures
func Stats(c *fiber.Ctx) error {
	db := database.Database.Db.WithContext(c.UserContext())

	var out stats
	var err error
	if out.Trainings, err = trainingsByStatus(db); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&out.Users, models.Active(db.Model(&models.User{}))},
		{&out.Enrollments, db.Model(&training.Enrollment{})},
		{&out.Completed, db.Model(&training.Enrollment{}).Where("status = ?", training.EnrollmentCompleted)},
		{&out.Leads, db.Model(&models.Lead{})},
	}
	for _, cnt := range counts {
		if err := cnt.q.Count(cnt.dst).Error; err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}
	if out.Revenue, err = revenue(db, time.Time{}, time.Time{}); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	month := now.New(time.Now())
	if out.ThisMonth, err = period(db, month.BeginningOfMonth(), month.EndOfMonth()); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	prev := now.New(month.BeginningOfMonth().AddDate(0, 0, -1))
	if out.LastMonth, err = period(db, prev.BeginningOfMonth(), prev.EndOfMonth()); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", out)
}

func trainingsByStatus(db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := db.Model(&training.Training{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{
		string(training.StatusDraft):     0,
		string(training.StatusPublished): 0,
		string(training.StatusDeleted):   0,
	}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

func period(db *gorm.DB, from, to time.Time) (periodStats, error) {
	p := periodStats{From: from, To: to}
	counts := []struct {
		dst *int64
		q   *gorm.DB
	}{
		{&p.NewUsers, models.Active(db.Model(&models.User{}))},
		{&p.Enrollments, db.Model(&training.Enrollment{})},
		{&p.Leads, db.Model(&models.Lead{})},
	}
	for _, cnt := range counts {
		if err := cnt.q.Where("created_at BETWEEN ? AND ?", from, to).Count(cnt.dst).Error; err != nil {
			return p, err
		}
	}
	if err := db.Model(&models.Payment{}).
		Where("status = ? AND approved_at BETWEEN ? AND ?", models.PaymentApproved, from, to).
		Count(&p.Payments).Error; err != nil {
		return p, err
	}
	var err error
	p.Revenue, err = revenue(db, from, to)
	return p, err
}

// revenue sums approved payments, within [from, to] when both are set
func revenue(db *gorm.DB, from, to time.Time) (float64, error) {
	q := db.Model(&models.Payment{}).Where("status = ?", models.PaymentApproved)
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("approved_at BETWEEN ? AND ?", from, to)
	}
	var total float64
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

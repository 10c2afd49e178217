package seed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/repository"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/utils"
)

var shifts = []string{"morning", "evening", "night"}

// SeedVolunteers inserts n random volunteers sharing the configured seed
// password.
func SeedVolunteers(r *repository.Repository, n int, password, emailDomain string) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomVolunteer(password, emailDomain)
		if err != nil {
			slog.Error("unable to generate a random volunteer", slog.String("error", err.Error()))
			continue
		}

		if err := r.CreateUser(user); err != nil {
			slog.Error("unable to insert volunteer", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

// SeedSubmissions inserts one availability submission per active volunteer
// for the given month.
func SeedSubmissions(r *repository.Repository, month string) int {
	users, err := r.GetAllUsers()
	if err != nil {
		slog.Error("unable to load volunteers", slog.String("error", err.Error()))
		return 0
	}

	cnt := 0
	for _, user := range users {
		if !user.IsActive {
			continue
		}

		submission := &domain.AvailabilitySubmission{
			UserID:     user.ID,
			Month:      month,
			Dates:      randomDates(month, rand.Intn(6)+3),
			Overnights: randomDates(month, rand.Intn(3)),
		}
		if err := r.UpsertAvailabilitySubmission(submission); err != nil {
			slog.Error("unable to insert submission", slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

// SeedSchedule publishes a bare-bones schedule for the month, assigning
// random volunteers to each day and shift.
func SeedSchedule(r *repository.Repository, month string, adminEmail string) error {
	users, err := r.GetAllUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("no users to schedule")
	}

	type entry struct {
		Date      string `json:"date"`
		Shift     string `json:"shift"`
		Volunteer string `json:"volunteer"`
	}

	entries := make([]entry, 0)
	for _, date := range monthDays(month) {
		for _, shift := range shifts {
			user := users[rand.Intn(len(users))]
			entries = append(entries, entry{Date: date, Shift: shift, Volunteer: user.Email})
		}
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	return r.UpsertPublishedSchedule(&domain.PublishedSchedule{
		Month:       month,
		Entries:     payload,
		PublishedBy: adminEmail,
	})
}

func randomDates(month string, n int) []string {
	days := monthDays(month)
	rand.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
	if n > len(days) {
		n = len(days)
	}
	return days[:n]
}

func monthDays(month string) []string {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil
	}

	days := make([]string, 0, 31)
	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}

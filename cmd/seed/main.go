// Command seed loads a small set of sample activities into the store, or
// wipes the catalog and ledger. It talks to the store through the same
// repositories as the server.
//
// Usage:
//
//	seed -import    load sample activities (clearing existing data first)
//	seed -destroy   wipe activities and bookings
package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"

	"github.com/cityplay/activity-booking-api/database"
	"github.com/cityplay/activity-booking-api/internal/adapters/postgres"
	pgactivityrepo "github.com/cityplay/activity-booking-api/internal/adapters/postgres/activityrepo"
	pgbookingrepo "github.com/cityplay/activity-booking-api/internal/adapters/postgres/bookingrepo"
	"github.com/cityplay/activity-booking-api/internal/domain"
	"github.com/cityplay/activity-booking-api/internal/platform/config"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
	"github.com/cityplay/activity-booking-api/internal/ports/out/activityrepo"
)

type sample struct {
	title       string
	description string
	location    string
	date        string
	time        string
}

var samples = []sample{
	{
		title:       "Hiking Adventure",
		description: "Enjoy a scenic hike through beautiful trails and breathtaking views.",
		location:    "Mountain Trail Park",
		date:        "2023-12-15",
		time:        "09:00 AM",
	},
	{
		title:       "Yoga Class",
		description: "Relax and rejuvenate with our expert-led yoga sessions suitable for all levels.",
		location:    "Wellness Center",
		date:        "2023-12-16",
		time:        "10:30 AM",
	},
	{
		title:       "Cooking Workshop",
		description: "Learn to prepare delicious meals with our professional chef.",
		location:    "Culinary Institute",
		date:        "2023-12-17",
		time:        "06:00 PM",
	},
	{
		title:       "Photography Tour",
		description: "Capture the beauty of nature with tips from professional photographers.",
		location:    "City Gardens",
		date:        "2023-12-18",
		time:        "02:00 PM",
	},
	{
		title:       "Wine Tasting",
		description: "Sample a variety of exquisite wines and learn about wine pairing.",
		location:    "Vineyard Estate",
		date:        "2023-12-19",
		time:        "07:00 PM",
	},
}

func main() {
	doImport := flag.Bool("import", false, "load sample activities (clears existing data first)")
	doDestroy := flag.Bool("destroy", false, "wipe activities and bookings")
	flag.Parse()

	log := logger.New(0)
	if *doImport == *doDestroy {
		log.Fatal("provide exactly one of -import or -destroy")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database.DSN, postgres.PoolOptions{})
	if err != nil {
		log.Fatal("failed to open store", "error", err)
	}
	defer pool.Close()

	activityRepo := pgactivityrepo.NewRepo(pool)
	bookingRepo := pgbookingrepo.NewRepo(pool)

	if err := bookingRepo.DeleteAll(ctx); err != nil {
		log.Fatal("failed to clear bookings", "error", err)
	}
	if err := activityRepo.DeleteAll(ctx); err != nil {
		log.Fatal("failed to clear activities", "error", err)
	}

	if *doDestroy {
		log.Info("data destroyed")
		return
	}

	now := time.Now().UTC()
	for _, s := range samples {
		date, err := time.Parse("2006-01-02", s.date)
		if err != nil {
			log.Fatal("bad sample date", "date", s.date, "error", err)
		}
		a := activityrepo.Activity{
			ID:          domain.ActivityID(uuid.NewString()),
			Title:       s.title,
			Description: s.description,
			Location:    s.location,
			Date:        date,
			Time:        s.time,
			CreatedAt:   now,
		}
		if err := activityRepo.Create(ctx, a); err != nil {
			log.Fatal("failed to insert activity", "title", s.title, "error", err)
		}
	}
	log.Info("data imported", "activities", len(samples))
}

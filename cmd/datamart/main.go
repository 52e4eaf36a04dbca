package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/database"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/datamart"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/utils"
)

func main() {
	var input string
	var store string
	var schedule string

	flag.StringVar(&input, "input", "data/superstore.xlsx", "Order export to ingest (.xlsx or .csv)")
	flag.StringVar(&store, "store", "artifacts/salesmart.db", "SQLite sales mart path")
	flag.StringVar(&schedule, "schedule", "", "Optional cron spec for periodic rebuilds (e.g. \"0 3 * * *\")")
	flag.Parse()

	utils.InitLogger()

	if schedule == "" {
		if err := rebuild(input, store); err != nil {
			log.Fatalf("❌ Datamart build failed: %v", err)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := rebuild(input, store); err != nil {
			log.Printf("❌ Scheduled rebuild failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("❌ Invalid cron spec %q: %v", schedule, err)
	}

	log.Printf("⏰ Rebuilding %s from %s on schedule %q", store, input, schedule)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	c.Stop()
}

func rebuild(input, store string) error {
	records, err := datamart.LoadOrders(input)
	if err != nil {
		return err
	}

	db, err := database.NewWritableDB(store)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := datamart.NewBuilder(db.GORM).Build(records); err != nil {
		return err
	}

	kpiBuilder := datamart.NewKPIBuilder(db.GORM)
	if err := kpiBuilder.BuildAll(records); err != nil {
		return err
	}

	log.Printf("✅ Sales mart rebuilt at %s (latest month: %s)", store, kpiBuilder.LatestMonth())
	return nil
}

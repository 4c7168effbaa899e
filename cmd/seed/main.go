package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"telegram-vip-subscription/internal/config"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
	pg "telegram-vip-subscription/internal/infra/db/postgres"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	durationRepo := pg.NewDurationRepo(pool)

	existing, err := durationRepo.FindAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list durations: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d durations already present. No changes.\n", len(existing))
		for _, d := range existing {
			fmt.Printf("  - %s (%s)\n", d.Token(), d)
		}
		return
	}

	// Default allow-list of grantable subscription lengths.
	seed := []struct {
		Magnitude int
		Unit      model.DurationUnit
	}{
		{1, model.DurationUnitDay},
		{3, model.DurationUnitDay},
		{7, model.DurationUnitDay},
		{14, model.DurationUnitDay},
		{1, model.DurationUnitMonth},
		{3, model.DurationUnitMonth},
		{6, model.DurationUnitMonth},
		{12, model.DurationUnitMonth},
	}

	for _, s := range seed {
		d, err := model.NewDuration(uuid.NewString(), s.Magnitude, s.Unit)
		if err != nil {
			log.Fatalf("build duration %d%s: %v", s.Magnitude, s.Unit, err)
		}
		if err := durationRepo.Save(ctx, repository.NoTX, d); err != nil {
			log.Fatalf("save duration %s: %v", d.Token(), err)
		}
		fmt.Printf("seeded: %s (id=%s, days=%d)\n", d.Token(), d.ID, d.Days())
	}

	fmt.Println("Seeding complete.")
}

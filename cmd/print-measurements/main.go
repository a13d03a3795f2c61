// Command print-measurements dumps a patient's measurement history to the
// console with the derived diagnosis per reading. With no patient flag it
// dumps every measurement in the store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/medtrack/bp-monitor/internal/config"
	"github.com/medtrack/bp-monitor/internal/database"
	"github.com/medtrack/bp-monitor/internal/diagnosis"
	"github.com/medtrack/bp-monitor/internal/domain"
	"github.com/medtrack/bp-monitor/internal/logger"
	"github.com/medtrack/bp-monitor/internal/services"
)

func main() {
	patientID := flag.Uint("patient", 0, "patient id to dump (0 = all measurements)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.InitWithConfig(logger.Config{
		Level:      logger.LevelWarn,
		OutputPath: "stdout",
		Format:     "text",
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := database.New(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()
	var measurements []domain.Measurement
	if *patientID > 0 {
		measurements, err = services.NewMeasurementService(db).ListMeasurements(ctx, *patientID)
		if err != nil {
			log.Fatalf("Failed to query measurements: %v", err)
		}
	} else {
		if err := db.WithContext(ctx).Order("timestamp ASC").Find(&measurements).Error; err != nil {
			log.Fatalf("Failed to query measurements: %v", err)
		}
	}

	if len(measurements) == 0 {
		fmt.Println("No measurements recorded.")
		os.Exit(0)
	}

	fmt.Println("Timestamp (UTC) - Systolic (mmHg) - Diastolic (mmHg) - Diagnosis")
	for _, m := range measurements {
		category, _ := diagnosis.Classify(m.Systolic, m.Diastolic)
		fmt.Printf("%s - %d - %d - %s\n", m.Timestamp.UTC().Format("2006-01-02 15:04:05"), m.Systolic, m.Diastolic, category)
	}
}

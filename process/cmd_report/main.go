package main

import (
	"flag"
	"log"
	"os"

	"ib01/process/report"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "report for a single user (default: all users)")
	driftOnly := flag.Bool("drift-only", false, "only print wallets whose stored balance differs from the recomputed one")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set; export DB_DSN and retry")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	if err := report.Run(db, *username, *driftOnly); err != nil {
		log.Fatalf("report failed: %v", err)
	}
}

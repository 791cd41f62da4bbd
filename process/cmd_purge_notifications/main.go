package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Deletes seen notifications older than the retention window. Unseen ones are
// kept regardless of age so nobody loses an unread withdrawal update.
func main() {
	days := flag.Int("days", 90, "retention window in days for seen notifications")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	res, err := db.Exec(
		`DELETE FROM notifications WHERE seen = true AND created_at < now() - ($1 || ' days')::interval`,
		fmt.Sprintf("%d", *days))
	if err != nil {
		log.Fatalf("purge notifications: %v", err)
	}
	n, _ := res.RowsAffected()
	fmt.Printf("purge done: %d seen notification(s) older than %d days removed\n", n, *days)
}

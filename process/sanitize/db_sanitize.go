// Package sanitize normalizes legacy rows in place: old French status
// spellings and the historical "sheduled" typo still occur in data imported
// from the previous backend, and the API layer expects canonical values.
package sanitize

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// statusFix maps a table+column to legacy-value rewrites.
type statusFix struct {
	table   string
	column  string
	rewrite map[string]string
}

var fixes = []statusFix{
	{
		table:  "bank_transfers",
		column: "status",
		rewrite: map[string]string{
			"reçu": "received",
			"recu": "received",
			"Reçu": "received",
		},
	},
	{
		table:  "withdrawal_requests",
		column: "status",
		rewrite: map[string]string{
			"sheduled": "scheduled",
		},
	},
	{
		table:  "wallet_transactions",
		column: "status",
		rewrite: map[string]string{
			"sheduled": "scheduled",
			"complete": "completed",
		},
	},
}

// Run executes the sanitize CLI behavior. Exported so a small cmd/main can call it.
func Run() {
	var (
		dryRun = flag.Bool("dry-run", true, "Only count affected rows; pass --dry-run=false to rewrite them")
		yes    = flag.Bool("yes", false, "Confirm the rewrite (required together with --dry-run=false)")
	)
	flag.Parse()

	gdb := mustInitDBFromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	total := int64(0)
	for _, fix := range fixes {
		for legacy, canonical := range fix.rewrite {
			var cnt int64
			q := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = ?`, fix.table, fix.column)
			if err := gdb.WithContext(ctx).Raw(q, legacy).Scan(&cnt).Error; err != nil {
				log.Fatalf("count %s.%s=%q failed: %v", fix.table, fix.column, legacy, err)
			}
			if cnt == 0 {
				continue
			}
			total += cnt
			fmt.Printf("%s.%s: %d row(s) %q -> %q\n", fix.table, fix.column, cnt, legacy, canonical)
			if *dryRun {
				continue
			}
			if !*yes {
				fmt.Println("Pass --yes to confirm the rewrite. Aborting.")
				return
			}
			stmt := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE %s = ?`, fix.table, fix.column, fix.column)
			if err := gdb.WithContext(ctx).Exec(stmt, canonical, legacy).Error; err != nil {
				log.Fatalf("rewrite %s.%s failed: %v", fix.table, fix.column, err)
			}
		}
	}
	if total == 0 {
		fmt.Println("no legacy rows found; nothing to do")
		return
	}
	if *dryRun {
		fmt.Println("dry-run enabled; no changes were made. Use --dry-run=false --yes to execute.")
	} else {
		fmt.Println("sanitize completed")
	}
}

// mustInitDBFromEnv is a light DB initializer used by this CLI.
func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

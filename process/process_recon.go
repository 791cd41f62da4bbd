package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ib01/models"
	"ib01/pkg/logx"
	"ib01/process/report"
	"ib01/process/statement"
)

// Global DB handle for helper funcs
var db *gorm.DB

var logger zerolog.Logger

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

// Main: reconciles wallet balances against the transaction ledger, optionally
// importing bank statement CSVs first, with a watch mode for a statement drop
// directory.
func main() {
	username := flag.String("user", "", "reconcile a single user (default: all users)")
	statementFile := flag.String("statement", "", "import one bank statement CSV before reconciling")
	watch := flag.String("watch", "", "watch a directory for dropped statement CSVs")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	apply := flag.Bool("apply", false, "persist recomputed balances (default: report only)")
	flag.Parse()

	logger = logx.New()
	db = mustInitDBFromEnv()

	if *statementFile != "" {
		importStatement(*statementFile)
	}

	reconcile(*username, effectiveWorkers(*workers), *apply)

	if *watch != "" {
		if err := watchStatements(*watch, effectiveWorkers(*workers), *apply); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func importStatement(path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("cannot open statement")
		return
	}
	defer f.Close()
	lines, bad, err := statement.Parse(f)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("statement unreadable")
		return
	}
	for _, b := range bad {
		logger.Warn().Int("line", b.Line).Str("field", b.Field).Str("reason", b.Reason).
			Str("file", path).Msg("skipped malformed statement row")
	}
	res, err := statement.Apply(db, lines, logger)
	if err != nil {
		logger.Error().Err(err).Str("file", path).Msg("statement import aborted")
		return
	}
	logger.Info().Str("file", path).
		Int("matched", res.Matched).Int("unmatched", res.Unmatched).Int("skipped", res.Skipped).
		Msg("statement imported")
}

// reconcile recomputes balances with a worker pool; with apply it persists the
// recomputed value, otherwise it only reports drift.
func reconcile(username string, workers int, apply bool) {
	var users []models.User
	q := db.Order("id asc")
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if err := q.Find(&users).Error; err != nil {
		logger.Error().Err(err).Msg("fetch users failed")
		return
	}

	userCh := make(chan models.User, 64)
	var wg sync.WaitGroup
	var mu sync.Mutex
	drifted, updated := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range userCh {
				row, err := report.ForUser(db, u)
				if err != nil {
					logger.Error().Err(err).Str("user", u.Username).Msg("reconcile failed")
					continue
				}
				if row.Divergence != 0 {
					logger.Warn().Str("user", u.Username).Int64("divergence", row.Divergence).
						Msg("deposit/transfer subtotals diverge")
				}
				if row.Drift == 0 {
					continue
				}
				mu.Lock()
				drifted++
				mu.Unlock()
				if !apply {
					logger.Info().Str("user", u.Username).
						Int64("stored", row.Stored).Int64("expected", row.Expected).
						Msg("wallet drift detected (dry run)")
					continue
				}
				if err := db.Model(&models.Profile{}).Where("user_id = ?", u.ID).
					Update("wallet_balance", row.Expected).Error; err != nil {
					logger.Error().Err(err).Str("user", u.Username).Msg("persist balance failed")
					continue
				}
				mu.Lock()
				updated++
				mu.Unlock()
				logger.Info().Str("user", u.Username).
					Int64("stored", row.Stored).Int64("expected", row.Expected).
					Msg("wallet balance corrected")
			}
		}()
	}
	for _, u := range users {
		userCh <- u
	}
	close(userCh)
	wg.Wait()
	logger.Info().Int("users", len(users)).Int("drifted", drifted).Int("updated", updated).
		Msg("reconciliation pass done")
}

// watchStatements blocks watching a drop directory; each stable new CSV is
// imported and followed by a full reconciliation pass.
func watchStatements(dir string, workers int, apply bool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info().Str("dir", dir).Msg("watching for statement drops")

	fileCh := make(chan string, 64)
	go func() {
		// debounce so half-written files settle before import
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 && isStatementFile(ev.Name) {
					pending[ev.Name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 500*time.Millisecond {
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				logger.Error().Err(err).Msg("watch error")
			}
		}
	}()

	for path := range fileCh {
		importStatement(path)
		reconcile("", workers, apply)
	}
	return nil
}

func isStatementFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

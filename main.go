package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/journal"
	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if cfg.DatabaseType == "sqlite" {
		// One writer; the ledger serializes mutations anyway
		dbConn.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Open the journal (creates schema)
	jrnl, err := journal.Open(dbConn, cfg.DatabaseType)
	if err != nil {
		slog.Error("journal open failed", "error", err)
		os.Exit(1)
	}

	// Load or bootstrap the election
	election, found, err := jrnl.Election()
	if err != nil {
		slog.Error("election load failed", "error", err)
		os.Exit(1)
	}
	if !found {
		electionID, err := auth.GenerateID(16)
		if err != nil {
			slog.Error("election id generation failed", "error", err)
			os.Exit(1)
		}
		election = journal.Election{
			ID:        electionID,
			CreatedAt: time.Now(),
		}
		election.Admin = auth.GenerateAdminKey(election.ID, cfg.AdminKeySalt)
		if err := jrnl.CreateElection(election); err != nil {
			slog.Error("election bootstrap failed", "error", err)
			os.Exit(1)
		}
		// Logged once at creation; the key is not retrievable later
		slog.Info("election created", "election_id", election.ID, "admin_key", election.Admin)
	}

	// Rebuild ledger state by replaying the journal
	events, err := jrnl.Events()
	if err != nil {
		slog.Error("journal read failed", "error", err)
		os.Exit(1)
	}
	lgr, err := ledger.Restore(election.Admin, events)
	if err != nil {
		slog.Error("journal replay failed", "error", err)
		os.Exit(1)
	}
	lgr.SetRecorder(jrnl)
	slog.Info("ledger restored", "election_id", election.ID, "events", len(events),
		"phase", lgr.Phase(), "candidates", lgr.CandidateCount(), "ballots", lgr.BallotsCast())

	// Create router
	mux := router.NewRouter(lgr, election.ID, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

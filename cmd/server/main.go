package main

import (
	"log"

	"assesscore/adapters/memory"
	"assesscore/adapters/postgres"
	appcore "assesscore/app/core"
	"assesscore/app/interview"
	"assesscore/app/match"
	"assesscore/app/session"
	"assesscore/internal"
	"assesscore/internal/config"
	"assesscore/internal/irt"
	"assesscore/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var (
		candidates  ports.CandidateRepository
		assessments ports.AssessmentRepository
		items       ports.ItemRepository
		scales      ports.ScaleRepository
		scores      ports.ScaleScoreRepository
		models      ports.PerformanceModelRepository
	)

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("failed to ping database: %v", err)
		}

		candidates = postgres.NewCandidateRepository(db)
		assessments = postgres.NewAssessmentRepository(db)
		items = postgres.NewItemRepository(db)
		scales = postgres.NewScaleRepository(db)
		scores = postgres.NewScaleScoreRepository(db)
		models = postgres.NewPerformanceModelRepository(db)
		logger.Info("connected to postgres")
	} else {
		log.Println("DATABASE_URL not set, running against empty in-memory repositories")
		candidates = memory.NewCandidateRepository()
		assessments = memory.NewAssessmentRepository()
		items = memory.NewItemRepository(nil)
		scales = memory.NewScaleRepository(nil)
		scores = memory.NewScaleScoreRepository()
		models = memory.NewPerformanceModelRepository(nil)
	}

	termination := irt.TerminationConfig{
		MinItems:  cfg.IRT.MinItems,
		MaxItems:  cfg.IRT.MaxItems,
		TargetSEM: cfg.IRT.TargetSEM,
	}
	prior := irt.Prior{Mu: cfg.IRT.PriorMu, Sigma: cfg.IRT.PriorSigma}

	sessions := session.NewManager(assessments, items, scales, scores, termination, prior, cfg.Scoring, logger)
	matcher := match.NewEngine(assessments, scores, scales, models, logger)
	interviews := interview.NewGenerator(matcher, scales, logger)
	service := appcore.NewService(candidates, assessments, sessions, matcher, interviews, cfg, logger)

	srv := NewServer(service, logger)
	logger.Info("starting server on port %s", cfg.Server.Port)
	if err := srv.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/application"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/auth"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/config"
	httptransport "github.com/CeoSiva/Kattunar-kuzhu-server/internal/http"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/logging"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/metrics"
	"github.com/CeoSiva/Kattunar-kuzhu-server/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("json").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogFormat)

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	memberRepo := sqlite.NewMemberRepository(store)
	businessRepo := sqlite.NewBusinessRepository(store)
	meetingRepo := sqlite.NewMeetingRepository(store)
	attendanceRepo := sqlite.NewAttendanceRepository(store)
	oneOnOneRepo := sqlite.NewOneOnOneRepository(store)
	referralRepo := sqlite.NewReferralRepository(store)
	requirementRepo := sqlite.NewRequirementRepository(store)
	statsRepo := sqlite.NewStatsRepository(store)

	memberService := application.NewMemberService(memberRepo, idGenerator, now)
	businessService := application.NewBusinessService(businessRepo, now)
	meetingService := application.NewMeetingService(meetingRepo, attendanceRepo, memberRepo, idGenerator, now)
	attendanceService := application.NewAttendanceService(meetingRepo, memberRepo, attendanceRepo, idGenerator, now)
	oneOnOneService := application.NewOneOnOneService(oneOnOneRepo, idGenerator, now)
	referralService := application.NewReferralService(referralRepo, idGenerator, now)
	requirementService := application.NewRequirementService(requirementRepo, memberRepo, businessRepo, idGenerator, now)
	statsService := application.NewStatsService(statsRepo, now)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	collectors := metrics.New()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Members:      httptransport.NewMemberHandler(memberService, logger),
		Meetings:     httptransport.NewMeetingHandler(meetingService, attendanceService, logger),
		OneOnOnes:    httptransport.NewOneOnOneHandler(oneOnOneService, logger),
		Businesses:   httptransport.NewBusinessHandler(businessService, logger),
		Referrals:    httptransport.NewReferralHandler(referralService, logger),
		Requirements: httptransport.NewRequirementHandler(requirementService, logger),
		Stats:        httptransport.NewStatsHandler(statsService, logger),
		Health:       httptransport.NewHealthHandler(store, logger),
		Metrics:      collectors.Handler(),

		RequireIdentity: httptransport.RequireIdentity(verifier, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Instrument(collectors),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("membership API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

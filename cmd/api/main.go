package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridianpsych/clinic-api/internal/config"
	"github.com/meridianpsych/clinic-api/internal/handler"
	appointmentHandler "github.com/meridianpsych/clinic-api/internal/handler/appointment"
	articleHandler "github.com/meridianpsych/clinic-api/internal/handler/article"
	authHandler "github.com/meridianpsych/clinic-api/internal/handler/auth"
	healthHandler "github.com/meridianpsych/clinic-api/internal/handler/health"
	partnerHandler "github.com/meridianpsych/clinic-api/internal/handler/partner"
	patientHandler "github.com/meridianpsych/clinic-api/internal/handler/patient"
	payerHandler "github.com/meridianpsych/clinic-api/internal/handler/payer"
	providerHandler "github.com/meridianpsych/clinic-api/internal/handler/provider"
	"github.com/meridianpsych/clinic-api/internal/llm"
	"github.com/meridianpsych/clinic-api/internal/middleware"
	"github.com/meridianpsych/clinic-api/internal/pms"
	"github.com/meridianpsych/clinic-api/internal/repository/postgres"
	"github.com/meridianpsych/clinic-api/internal/router"
	articleService "github.com/meridianpsych/clinic-api/internal/service/article"
	authService "github.com/meridianpsych/clinic-api/internal/service/auth"
	availabilityService "github.com/meridianpsych/clinic-api/internal/service/availability"
	bookabilityService "github.com/meridianpsych/clinic-api/internal/service/bookability"
	bookingService "github.com/meridianpsych/clinic-api/internal/service/booking"
	diagnosticsService "github.com/meridianpsych/clinic-api/internal/service/diagnostics"
	partnerService "github.com/meridianpsych/clinic-api/internal/service/partner"
	patientService "github.com/meridianpsych/clinic-api/internal/service/patient"
	payerService "github.com/meridianpsych/clinic-api/internal/service/payer"
	providerService "github.com/meridianpsych/clinic-api/internal/service/provider"
	"github.com/meridianpsych/clinic-api/pkg/logger"
	"github.com/meridianpsych/clinic-api/pkg/metrics"
	"github.com/meridianpsych/clinic-api/pkg/security"
)

func main() {
	l := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Fatal(err, "failed to load configuration")
	}

	if err := handler.RegisterValidators(); err != nil {
		l.Fatal(err, "failed to register request validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	payerRepo := postgres.NewPayerRepository(db)
	contractRepo := postgres.NewContractRepository(db)
	supervisionRepo := postgres.NewSupervisionRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(base)
	partnerRepo := postgres.NewPartnerRepository(db)
	articleRepo := postgres.NewArticleRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	diagnosticsRepo := postgres.NewDiagnosticsRepository(db)

	m := metrics.NewMetrics("clinic_api")

	pmsClient := pms.NewClient(cfg.PMS)

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		l.Fatal(err, "failed to initialize drafting client")
	}

	authSvc := authService.NewService(userRepo, security.NewBcryptHasher(bcrypt.DefaultCost), cfg.JWT, cfg.Admin, l)
	bookabilitySvc := bookabilityService.NewService(payerRepo, contractRepo, supervisionRepo, providerRepo, m, l)
	diagnosticsSvc := diagnosticsService.NewService(payerRepo, diagnosticsRepo, bookabilitySvc, m, l)
	availabilitySvc := availabilityService.NewService(providerRepo, availabilityRepo, appointmentRepo, m, l)
	providerSvc := providerService.NewService(providerRepo, contractRepo, payerRepo, l)
	payerSvc := payerService.NewService(payerRepo, contractRepo, supervisionRepo, providerRepo, l)
	bookingSvc := bookingService.NewService(appointmentRepo, providerRepo, patientRepo, outboxRepo, bookabilitySvc, pmsClient, l)
	patientSvc := patientService.NewService(patientRepo, outboxRepo, &base, l)
	partnerSvc := partnerService.NewService(partnerRepo, l)
	articleSvc := articleService.NewService(articleRepo, llmClient, l)

	r := router.New(
		router.Config{
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORS:           middleware.DefaultCORSConfig(),
			MetricsPrefix:  "clinic_api",
		},
		l,
		authSvc,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		providerHandler.NewHandler(providerSvc, availabilitySvc),
		payerHandler.NewHandler(payerSvc, bookabilitySvc, diagnosticsSvc),
		appointmentHandler.NewHandler(bookingSvc),
		patientHandler.NewHandler(patientSvc, authSvc),
		partnerHandler.NewHandler(partnerSvc),
		articleHandler.NewHandler(articleSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		l.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Fatal(err, "server forced to shutdown")
	}
	l.Info("server exited")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/tenurehq/tenure-backend/internal/auth/handler"
	"github.com/tenurehq/tenure-backend/internal/auth/jwt"
	authmw "github.com/tenurehq/tenure-backend/internal/auth/middleware"
	authrepo "github.com/tenurehq/tenure-backend/internal/auth/repository"
	authservice "github.com/tenurehq/tenure-backend/internal/auth/service"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	"github.com/tenurehq/tenure-backend/internal/hr/handler"
	"github.com/tenurehq/tenure-backend/internal/hr/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/migrations"
	"github.com/tenurehq/tenure-backend/pkg/config"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/httputil"
	"github.com/tenurehq/tenure-backend/pkg/logger"
	"github.com/tenurehq/tenure-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("hr-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("hr-service", cfg.Server.Environment)
	log.Info().Msg("starting HR Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db.DB.DB, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to RabbitMQ. The broker is optional: without it the service
	// runs with event publishing disabled and /health reports it down.
	var msgPublisher *messaging.Publisher
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, event publishing disabled")
		rmq = nil
	} else {
		defer rmq.Close()
		msgPublisher, err = messaging.NewPublisher(rmq, messaging.ExchangeHREvents, "hr-service", log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create publisher")
		}
	}
	publisher := events.NewPublisher(msgPublisher, log)

	// Repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	managerRepo := repository.NewManagerRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	salaryRepo := repository.NewSalaryRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	sessionRepo := authrepo.NewSessionRepository(db)

	// Services
	auditService := service.NewAuditService(auditRepo, log)
	employeeService := service.NewEmployeeService(db, employeeRepo, userRepo, assignmentRepo, departmentRepo, titleRepo, salaryRepo, auditService, publisher, log)
	departmentService := service.NewDepartmentService(departmentRepo, managerRepo, employeeRepo, auditService, log)
	assignmentService := service.NewAssignmentService(db, assignmentRepo, employeeRepo, departmentRepo, auditService, publisher, log)
	titleService := service.NewTitleService(titleRepo, employeeRepo, auditService, publisher, log)
	salaryService := service.NewSalaryService(salaryRepo, employeeRepo, auditService, publisher, log)
	reportService := service.NewReportService(employeeRepo, departmentRepo, assignmentRepo, managerRepo, titleRepo, salaryRepo, log)
	seederService := service.NewSeederService(employeeService, departmentService, assignmentService, titleService, salaryService, log)

	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(db, sessionRepo, userRepo, employeeRepo, jwtManager, auditService, publisher, cfg, log)

	// Handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService, assignmentService, log)
	departmentHandler := handler.NewDepartmentHandler(departmentService, log)
	titleHandler := handler.NewTitleHandler(titleService, log)
	salaryHandler := handler.NewSalaryHandler(salaryService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	reportHandler := handler.NewReportHandler(reportService, seederService, log)

	requireAuth := authmw.RequireAuth(jwtManager)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "hr-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/register", authHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Create)

				r.Route("/{empNo}", func(r chi.Router) {
					r.Get("/", employeeHandler.Get)
					r.Put("/", employeeHandler.Update)
					r.Delete("/", employeeHandler.Delete)

					r.Route("/assignments", func(r chi.Router) {
						r.Get("/", employeeHandler.ListAssignments)
						r.Post("/", employeeHandler.CreateAssignment)
						r.Put("/{deptNo}", employeeHandler.UpdateAssignment)
						r.Post("/{deptNo}/end", employeeHandler.EndAssignment)
						r.Delete("/{deptNo}", employeeHandler.DeleteAssignment)
					})

					r.Route("/titles", func(r chi.Router) {
						r.Get("/", titleHandler.List)
						r.Post("/", titleHandler.Create)
						r.Post("/end", titleHandler.End)
						r.Delete("/", titleHandler.Delete)
					})

					r.Route("/salaries", func(r chi.Router) {
						r.Get("/", salaryHandler.List)
						r.Post("/", salaryHandler.Create)
						r.Put("/{fromDate}", salaryHandler.Update)
						r.Post("/{fromDate}/end", salaryHandler.End)
						r.Delete("/{fromDate}", salaryHandler.Delete)
					})

					r.Get("/audit", auditHandler.ListByEmployee)
					r.Get("/audit/salaries", auditHandler.ListSalaryByEmployee)
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", departmentHandler.List)
				r.Post("/", departmentHandler.Create)

				r.Route("/{deptNo}", func(r chi.Router) {
					r.Get("/", departmentHandler.Get)
					r.Put("/", departmentHandler.Update)
					r.Delete("/", departmentHandler.Delete)

					r.Route("/managers", func(r chi.Router) {
						r.Get("/", departmentHandler.ListManagers)
						r.Post("/", departmentHandler.AssignManager)
						r.Post("/{empNo}/end", departmentHandler.EndManagerTenure)
						r.Delete("/{empNo}", departmentHandler.DeleteManagerTenure)
					})
				})
			})

			r.Route("/audit", func(r chi.Router) {
				r.Get("/", auditHandler.ListRecent)
				r.Get("/trail", auditHandler.Trail)
				r.Get("/salaries", auditHandler.ListSalaryRecent)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/payroll", reportHandler.Payroll)
				r.Get("/organization", reportHandler.Organization)
				r.Get("/payroll.csv", reportHandler.ExportPayrollCSV)
				r.Get("/employees.csv", reportHandler.ExportEmployeesCSV)
			})

			r.Post("/seed", reportHandler.Seed)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

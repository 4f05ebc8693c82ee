package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"autoscuola/internal/api"
	"autoscuola/internal/app"
	"autoscuola/internal/auth"
	"autoscuola/internal/config"
	"autoscuola/internal/repository"
	"autoscuola/internal/schedule"
	"autoscuola/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open DB", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}

	migrator, err := app.NewMigrator(database, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(context.Background()); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	lessonRepo := repository.NewLessonRepository(database)
	availabilityRepo := repository.NewAvailabilityRepository(database)
	requestRepo := repository.NewRequestRepository(database)
	skillRepo := repository.NewSkillRepository(database)
	settingRepo := repository.NewSettingRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)

	sender := service.NewSenderService(
		cfg.SendgridAPIKey, cfg.EmailFrom, cfg.EmailFromName,
		cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber,
		logger,
	)
	notifier := service.NewNotifyService(userRepo, sender, logger)

	lessonSvc := service.NewLessonService(
		lessonRepo, skillRepo, settingRepo, availabilityRepo, notifier, logger,
		cfg.EnforceAvailability, cfg.DefaultCancellationHours,
	)
	requestSvc := service.NewRequestService(requestRepo, lessonSvc, logger)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, logger)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(jobRepo, notifier, logger)

	lessonHandler := api.NewLessonHandler(lessonSvc)
	requestHandler := api.NewRequestHandler(requestSvc)
	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	authHandler := api.NewAuthHandler(authSvc)
	settingHandler := api.NewSettingHandler(settingRepo)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(cfg.JWTSecret))

	authed.HandleFunc("/lessons", lessonHandler.List).Methods("GET")
	authed.HandleFunc("/lessons/{id}", lessonHandler.Get).Methods("GET")
	authed.HandleFunc("/lessons/{id}/cancel", lessonHandler.Cancel).Methods("POST")
	authed.HandleFunc("/lesson-requests", requestHandler.Submit).Methods("POST")
	authed.HandleFunc("/availability", availabilityHandler.Overview).Methods("GET")

	// Instructor and staff endpoints
	scheduling := authed.NewRoute().Subrouter()
	scheduling.Use(auth.RequireRoles(schedule.RoleInstructor, schedule.RoleStaff))
	scheduling.HandleFunc("/lessons", lessonHandler.Create).Methods("POST")
	scheduling.HandleFunc("/lessons/{id}/confirm", lessonHandler.Confirm).Methods("POST")
	scheduling.HandleFunc("/lessons/{id}/complete", lessonHandler.Complete).Methods("POST")
	scheduling.HandleFunc("/students/{id}/skills", lessonHandler.StudentSkills).Methods("GET")
	scheduling.HandleFunc("/availability/slots", availabilityHandler.CreateSlot).Methods("POST")
	scheduling.HandleFunc("/availability/slots/{id}", availabilityHandler.DeleteSlot).Methods("DELETE")
	scheduling.HandleFunc("/time-off", availabilityHandler.CreateTimeOff).Methods("POST")
	scheduling.HandleFunc("/time-off/{id}", availabilityHandler.DeleteTimeOff).Methods("DELETE")

	// Staff-only endpoints
	staff := authed.NewRoute().Subrouter()
	staff.Use(auth.RequireRoles(schedule.RoleStaff))
	staff.HandleFunc("/lesson-requests", requestHandler.ListPending).Methods("GET")
	staff.HandleFunc("/lesson-requests/{id}", requestHandler.Get).Methods("GET")
	staff.HandleFunc("/lesson-requests/{id}/accept", requestHandler.Accept).Methods("POST")
	staff.HandleFunc("/lesson-requests/{id}/reject", requestHandler.Reject).Methods("POST")
	staff.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	staff.HandleFunc("/settings/{key}", settingHandler.Get).Methods("GET")
	staff.HandleFunc("/settings/{key}", settingHandler.Put).Methods("PUT")

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReminderSpec, func() {
		if err := jobSvc.SendUpcomingReminders(context.Background()); err != nil {
			logger.Error("reminder job failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("failed to schedule reminder job", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, cors(r)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

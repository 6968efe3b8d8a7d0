// File: gymflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gymflow/config"
	"gymflow/cron"
	"gymflow/database"
	bookingsRepo "gymflow/database/repository/bookings"
	catalogRepo "gymflow/database/repository/catalog"
	rulesRepo "gymflow/database/repository/rules"
	"gymflow/handlers"
	"gymflow/routes"
	"gymflow/services/booking"
	"gymflow/services/calendar"
	"gymflow/services/notification"
	"gymflow/services/schedule"
	"gymflow/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	ruleRepo := rulesRepo.NewMongoRuleRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()
	bookRepo := bookingsRepo.NewMongoBookingRepo()

	// services.
	availabilityCache := booking.NewAvailabilityCache()
	busySource := calendar.NewGoogleBusySource(ruleRepo)
	var dispatcher notification.Dispatcher = notification.NewAsynqDispatcher()
	if !config.IsProduction() {
		// Local runs log booking events instead of enqueueing them.
		dispatcher = notification.LogDispatcher{}
	}

	engine := &booking.DefaultEngine{
		Rules:            ruleRepo,
		Catalog:          catRepo,
		Bookings:         bookRepo,
		BusySource:       busySource,
		Notifier:         dispatcher,
		Cache:            availabilityCache,
		Idempotency:      booking.NewRedisIdempotencyStore(),
		BusyFetchTimeout: time.Duration(config.AppConfig.BusyFetchTimeoutMS) * time.Millisecond,
	}
	scheduleService := &schedule.DefaultService{
		Rules:   ruleRepo,
		Catalog: catRepo,
		Cache:   availabilityCache,
	}
	calendarService := &calendar.ConnectService{Rules: ruleRepo}

	handlers.Engine = engine
	handlers.ScheduleService = scheduleService
	handlers.CalendarService = calendarService

	cron.InitNotificationWorker(bookRepo)
	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetIdempotencyClient(), database.MongoClient)

	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

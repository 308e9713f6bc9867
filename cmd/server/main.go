package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"feeportal/internal/auth"
	"feeportal/internal/database"
	"feeportal/internal/email"
	"feeportal/internal/logger"
	"feeportal/internal/payment"
	"feeportal/internal/server"
	"feeportal/internal/session"
	"feeportal/internal/student"
)

func main() {
	lgr := logger.New()
	logger.SetDefault(lgr)

	cfg := server.LoadConfigFromEnv()
	lgr.Info("Starting fee portal", "port", cfg.Port, "env", cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (runs migrations on startup)
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	lgr.Info("Connected to database")

	// Repositories and session manager
	students := student.NewPostgresRepository(db)
	sessions := session.NewManager(session.NewPostgresStore(db))

	// Background session sweeper, hourly for the process lifetime
	go session.RunSweeper(ctx, sessions, session.SweepInterval, lgr)

	// Email sender for payment receipts
	emailConfig := email.NewConfig()
	emailSender := email.NewSender(emailConfig)
	lgr.Info("Email mode", "mode", emailConfig.Mode)

	// Services and handlers
	authService := auth.NewService(students, sessions)
	authHandler := auth.NewHandler(authService, cfg.Production())

	gateway := payment.NewSimulatedGateway(payment.DefaultSuccessRate)
	paymentService := payment.NewService(payment.NewPostgresStore(db), students, gateway, emailSender)
	paymentHandler := payment.NewHandler(paymentService)

	rosterHandler := student.NewHandler(students)

	app := server.New(cfg, db, sessions, authHandler, rosterHandler, paymentHandler)
	srv := app.HTTPServer()

	go func() {
		lgr.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lgr.Info("Shutting down")
	cancel() // stops the session sweeper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	db.Close()
	lgr.Info("Server stopped")
}

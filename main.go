package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monet/config"
	"monet/cron"
	"monet/database"
	availabilityRepo "monet/database/repository/availability"
	bookingRepo "monet/database/repository/booking"
	feedbackRepo "monet/database/repository/feedback"
	payeeRepo "monet/database/repository/payee"
	paymentRepo "monet/database/repository/payment"
	"monet/handlers"
	"monet/middleware"
	"monet/routes"
	"monet/services/availability"
	"monet/services/booking"
	"monet/services/calendar"
	"monet/services/meeting"
	"monet/services/payment"
	"monet/services/payout"
	"monet/services/qc"
	"monet/services/tasks"
	"monet/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()
	payRepo := paymentRepo.NewMongoPaymentRepo()
	fbRepo := feedbackRepo.NewMongoFeedbackRepo()
	pyRepo := payeeRepo.NewMongoPayeeRepo()

	// external ports.
	escrowGateway := payment.NewStripeEscrowGateway(payRepo, pyRepo, logger)
	meetingClient := meeting.NewHTTPMeetingClient(
		config.AppConfig.MeetingAPIBaseURL, config.AppConfig.MeetingAPIKey, logger)
	calendarClient := calendar.NewHTTPCalendarClient(
		config.AppConfig.CalendarAPIBaseURL, utils.GetCacheClient(), logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Repo:     availRepo,
		Calendar: calendarClient,
		Cache:    utils.GetCacheClient(),
		Logger:   logger,
	}

	bookingService := &booking.DefaultBookingLifecycleService{
		Repo:                  bkRepo,
		Payments:              payRepo,
		Escrow:                escrowGateway,
		Meetings:              meetingClient,
		Availability:          availabilityService,
		Reminders:             &tasks.AsynqScheduler{Client: asynqClient, Logger: logger},
		Logger:                logger,
		CancellationWindowMin: config.AppConfig.CancellationWindowMin,
	}

	payoutService := &payout.Coordinator{
		Payments: payRepo,
		Payees:   pyRepo,
		Feedback: fbRepo,
		Bookings: bkRepo,
		Escrow:   escrowGateway,
		Logger:   logger,
	}

	qcGate := &qc.Gate{
		Cfg: qc.Config{
			MinWordCount:        config.AppConfig.QCMinWordCount,
			RequiredActionItems: config.AppConfig.QCRequiredActions,
			StrictEvaluator:     config.AppConfig.QCStrictEvaluator,
		},
		Feedback:  fbRepo,
		Bookings:  bkRepo,
		Lifecycle: bookingService,
		Payouts:   payoutService,
		Logger:    logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: availabilityService,
		Bookings:     bookingService,
		QC:           qcGate,
		Payouts:      payoutService,
		Payees:       pyRepo,
		Logger:       logger,
	}

	counter := &middleware.RedisWindowCounter{Client: utils.GetRateLimitCacheClient()}
	routes.RegisterRoutes(router, handlerBundle, counter)

	// Background workers: queue drain plus the periodic payout sweep.
	cron.InitWorker(payoutService)
	cron.InitSweepScheduler()

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on :%s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	logger.Info("main: stopped")
}

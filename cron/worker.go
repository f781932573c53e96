package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"monet/config"
	"monet/services/payout"
	"monet/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitWorker runs the async worker in background. It drains the shared task
// queue: scheduled call reminders and payout sweeps.
func InitWorker(payoutSvc payout.PayoutService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCallReminder, handleCallReminder)
	mux.HandleFunc(tasks.TypePayoutSweep, handlePayoutSweep(payoutSvc))

	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// InitSweepScheduler enqueues a periodic payout sweep so pending payouts
// settle even when no admin touches them.
func InitSweepScheduler() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 10m", tasks.NewPayoutSweepTask()); err != nil {
		log.Fatalf("[Scheduler] Failed to register payout sweep: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting payout sweep scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed to run: %v", err)
		}
	}()
}

func handleCallReminder(_ context.Context, task *asynq.Task) error {
	var p tasks.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		zap.L().Error("invalid reminder payload", zap.Error(err))
		return err
	}

	// Delivery (push, email) lives in the upstream notification layer; the
	// core only emits the event.
	zap.L().Info("call reminder due",
		zap.String("bookingId", p.BookingID),
		zap.String("candidateId", p.CandidateID),
		zap.String("professionalId", p.ProfessionalID),
		zap.Time("startAt", p.StartAt),
		zap.String("joinUrl", p.JoinURL))
	return nil
}

func handlePayoutSweep(payoutSvc payout.PayoutService) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		released, err := payoutSvc.SweepPending(ctx)
		if err != nil {
			zap.L().Error("payout sweep failed", zap.Error(err))
			return err
		}
		zap.L().Info("payout sweep ran", zap.Int("released", released))
		return nil
	}
}

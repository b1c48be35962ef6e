package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"attendflow/internal/config"
	"attendflow/internal/notify"
	"attendflow/internal/queue"
	"attendflow/internal/store"
)

// Worker consumes queued notification jobs and delivers them through the SMS
// gateway. Fire-and-forget endpoints publish here so the request returns
// before any network call to the gateway.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		redisClient := store.NewRedis(cfg.RedisAddr)
		jobs = queue.NewRedisQueue(redisClient.Client, "attendflow:notifications")
	}

	gateway := notify.NewSMSGateway(notify.SMSConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioFrom,
	})

	messages, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for notification jobs...")
	for job := range messages {
		if job.Recipient == "" {
			continue
		}
		if err := gateway.Send(ctx, job.Recipient, job.Body); err != nil {
			log.Printf("delivery to %s failed: %v", job.Recipient, err)
			continue
		}
	}

	log.Println("worker stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/suPer8Hu/health-triage/internal/chat"
	"github.com/suPer8Hu/health-triage/internal/config"
	"github.com/suPer8Hu/health-triage/internal/db"
	"github.com/suPer8Hu/health-triage/internal/metrics"
	"github.com/suPer8Hu/health-triage/internal/risk"
	"github.com/suPer8Hu/health-triage/internal/store/rabbitmq"
	"github.com/suPer8Hu/health-triage/internal/store/sqlstore"
)

func main() {
	cfg := config.Load()
	if cfg.RabbitURL == "" {
		log.Fatalf("RABBIT_URL is empty")
	}

	driver, dsn := db.DriverSQLite, cfg.SQLitePath
	if cfg.StoreBackend == "mysql" {
		driver, dsn = db.DriverMySQL, cfg.DBDSN
	}
	riskLog := sqlstore.NewRiskLog(db.Connect(driver, dsn))

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	//  strict concurrency control
	concurrency := cfg.WorkerConcurrency

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	// worker pool
	deliveries := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range deliveries {
				ev, err := rabbitmq.DecodeRisk(d.Body)
				if err != nil || ev.MessageID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					metrics.RiskEventsStored.WithLabelValues("rejected").Inc()
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := storeRisk(ctx, riskLog, ev); err != nil {
					log.Printf("worker=%d risk event message_id=%s failed cost=%s err=%v", workerID, ev.MessageID, time.Since(start), err)
					metrics.RiskEventsStored.WithLabelValues("failed").Inc()
					_ = d.Nack(false, false)
					continue
				}
				metrics.RiskEventsStored.WithLabelValues("stored").Inc()

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed message_id=%s err=%v", workerID, ev.MessageID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(deliveries)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				close(deliveries)
				wg.Wait()
				return
			}
			deliveries <- d
		}
	}
}

func storeRisk(ctx context.Context, riskLog *sqlstore.RiskLog, ev chat.RiskEvent) error {
	row := &sqlstore.RiskEvent{
		SessionID: ev.SessionID,
		MessageID: ev.MessageID,
		Score:     ev.Score,
		Severity:  string(ev.Severity),
		Source:    ev.Source,
		Intent:    string(ev.Intent),
		At:        ev.At,
	}
	if err := riskLog.Insert(ctx, row); err != nil {
		return err
	}
	if ev.Severity.Rank() >= risk.High.Rank() {
		log.Printf("risk_event session_id=%s message_id=%s score=%d severity=%s source=%s",
			ev.SessionID, ev.MessageID, ev.Score, ev.Severity, ev.Source)
	}
	return nil
}

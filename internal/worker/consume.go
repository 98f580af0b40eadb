package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run starts n consumers on queue and blocks until ctx is cancelled or a
// consumer fails.
func (w *Worker) Run(ctx context.Context, rabbitURL, queue string, n int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range n {
		id := i + 1
		w.logger().Info("worker started", zap.Int("worker_id", id))
		g.Go(func() error {
			return w.consume(ctx, id, rabbitURL, queue)
		})
	}
	return g.Wait()
}

func (w *Worker) consume(ctx context.Context, id int, rabbitURL, queue string) error {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		queue, // queue name
		true,  // durable (survives broker restarts)
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		queue, // queue name
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	log := w.logger().With(zap.Int("worker_id", id))
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			w.deliver(ctx, log, msg)
		}
	}
}

// deliver acks every handled message except interrupted ones, which are
// requeued.
func (w *Worker) deliver(ctx context.Context, log *zap.Logger, msg amqp.Delivery) {
	err := w.HandleMessage(ctx, msg.Body)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if nerr := msg.Nack(false, true); nerr != nil {
			log.Error("failed to requeue message", zap.Error(nerr))
		}
		return
	}
	if aerr := msg.Ack(false); aerr != nil {
		log.Error("failed to ack message", zap.Error(aerr))
	}
}

package main

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-api/pkg/mailer"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeDrop
)

type worker struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

// handle decodes, renders and sends one job. Malformed or unrenderable jobs
// are dropped; delivery failures are retried.
func (w *worker) handle(ctx context.Context, id string, body []byte) outcome {
	log := w.Logger.WithField("message_id", id)

	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.WithError(err).Warn("bad message")
		return outcomeDrop
	}
	subject, text, html, err := job.Render()
	if err != nil {
		log.WithError(err).WithField("template", job.Template).Warn("render failed")
		return outcomeDrop
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Warn("send failed")
		return outcomeRetry
	}
	log.WithField("template", job.Template).Info("email sent")
	return outcomeAck
}

// consume handles deliveries until the channel closes. Once ctx is done,
// remaining deliveries are requeued untouched.
func (w *worker) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		if ctx.Err() != nil {
			_ = d.Nack(false, true)
			continue
		}
		w.settle(d, w.handle(ctx, d.MessageId, d.Body))
	}
}

// settle acks or nacks a delivery. A job whose send already failed once is
// dropped instead of requeued again.
func (w *worker) settle(d amqp.Delivery, o outcome) {
	switch {
	case o == outcomeAck:
		_ = d.Ack(false)
	case o == outcomeRetry && !d.Redelivered:
		_ = d.Nack(false, true)
	default:
		if o == outcomeRetry {
			w.Logger.WithField("message_id", d.MessageId).Error("email dropped after redelivery")
		}
		_ = d.Nack(false, false)
	}
}

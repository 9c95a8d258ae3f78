// Package broker implements the AMQP collaborator: consuming
// match-creation requests and publishing match outcomes. It is a
// wire-contract-only collaborator, not part of the core match engine.
package broker

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/decred/slog"
	"github.com/schnapsen-duo/match-server/pkg/protocol"
)

const (
	exchangeMatches = "matches"

	queueCreate = "match.create"

	routingCreated     = "match.created"
	routingResult      = "match.result"
	routingAbruptClose = "match.abrupt_close"
)

// Client wraps a single AMQP connection/channel pair.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  slog.Logger
}

// Dial connects to the broker at url and declares the topic exchange and
// the inbound match-creation queue.
func Dial(url string, log slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeMatches, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queueCreate, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	if err := ch.QueueBind(queueCreate, "match.create.*", exchangeMatches, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Client{conn: conn, ch: ch, log: log}, nil
}

// Close tears down the channel and connection.
func (c *Client) Close() error {
	c.ch.Close()
	return c.conn.Close()
}

// ConsumeCreateMatch delivers decoded CreateMatch requests to handle
// until ctx is canceled.
func (c *Client) ConsumeCreateMatch(ctx context.Context, handle func(protocol.CreateMatch)) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, queueCreate, "", true, false, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				var req protocol.CreateMatch
				if err := json.Unmarshal(d.Body, &req); err != nil {
					if c.log != nil {
						c.log.Warnf("dropping malformed CreateMatch: %v", err)
					}
					continue
				}
				handle(req)
			}
		}
	}()
	return nil
}

// ReportMatchCreated publishes a CreatedMatch notification.
func (c *Client) ReportMatchCreated(ctx context.Context, msg protocol.CreatedMatch) error {
	return c.publish(ctx, routingCreated, msg)
}

// ReportMatchResult publishes a natural match outcome.
func (c *Client) ReportMatchResult(ctx context.Context, msg protocol.MatchResult) error {
	return c.publish(ctx, routingResult, msg)
}

// ReportMatchAbruptClose publishes an abnormal match termination.
func (c *Client) ReportMatchAbruptClose(ctx context.Context, msg protocol.MatchAbruptClose) error {
	return c.publish(ctx, routingAbruptClose, msg)
}

func (c *Client) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.ch.PublishWithContext(ctx, exchangeMatches, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

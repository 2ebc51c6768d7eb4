// Package worker keeps the post comment-count cache in step with comment
// events. The cache is recomputed from the comments table on every
// create/delete event, so a cascade that removes an arbitrary subtree
// still converges to the true count.
package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/social-platform/internal/platform/events"
)

const (
	subjects = "social.comments.*"
	durable  = "social_comment_counts"
)

// StartCountsConsumer pulls comment events and updates post_comment_counts.
// It returns once ctx is cancelled or the subscription cannot be set up.
//
// Schema:
//
//	CREATE TABLE post_comment_counts (
//	    post_id       text PRIMARY KEY,
//	    comment_count int NOT NULL,
//	    updated_at    timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE processed_events (
//	    event_id   text PRIMARY KEY,
//	    subject    text NOT NULL,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
func StartCountsConsumer(ctx context.Context, nc *nats.Conn, pool *pgxpool.Pool, log *zap.Logger) {
	js, err := nc.JetStream()
	if err != nil {
		log.Error("counts consumer: jetstream", zap.Error(err))
		return
	}
	sub, err := js.PullSubscribe(subjects, durable)
	if err != nil {
		log.Error("counts consumer: subscribe", zap.Error(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := sub.Fetch(50, nats.MaxWait(2*time.Second))
		if err != nil {
			if err == nats.ErrTimeout {
				continue
			}
			log.Warn("counts consumer: fetch", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, m := range msgs {
			if err := handleMessage(ctx, pool, m); err != nil {
				log.Warn("counts consumer: handle", zap.String("subject", m.Subject), zap.Error(err))
				if err := m.Nak(); err != nil {
					log.Warn("counts consumer: nak", zap.Error(err))
				}
				continue
			}
			if err := m.Ack(); err != nil {
				log.Warn("counts consumer: ack", zap.Error(err))
			}
		}
	}
}

func handleMessage(ctx context.Context, pool *pgxpool.Pool, m *nats.Msg) error {
	// Likes never change comment counts.
	if strings.TrimPrefix(m.Subject, "social.comments.") == "liked" {
		return nil
	}

	var ev events.Event
	if err := json.Unmarshal(m.Data, &ev); err != nil {
		return err
	}
	postID, _ := ev.Properties["post_id"].(string)
	if postID == "" {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`INSERT INTO processed_events (event_id, subject) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING`,
		ev.EventID, m.Subject)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Already applied.
		return nil
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO post_comment_counts (post_id, comment_count)
		 VALUES ($1, (SELECT count(*) FROM comments WHERE post_id = $1))
		 ON CONFLICT (post_id) DO UPDATE
		 SET comment_count = excluded.comment_count, updated_at = now()`,
		postID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

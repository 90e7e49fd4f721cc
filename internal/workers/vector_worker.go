package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/services"
)

const (
	VectorStream = "profile:vector-sync"
	VectorGroup  = "vector-workers"

	EventVectorSynced = "vector_synced"
	EventVectorFailed = "vector_failed"
)

// EventsChannel is the pub/sub channel carrying a user's profile events.
func EventsChannel(userID string) string {
	return "profile:" + userID + ":events"
}

// ProfileEvent is published on EventsChannel after each sync attempt.
type ProfileEvent struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
	Message string `json:"message,omitempty"`
	At      int64  `json:"at"`
}

// VectorQueue schedules vector syncs by appending to the Redis stream.
type VectorQueue struct {
	Redis  *redis.Client
	Stream string
	MaxLen int64
	Logger logrus.FieldLogger
}

func NewVectorQueue(rdb *redis.Client, log logrus.FieldLogger) *VectorQueue {
	return &VectorQueue{Redis: rdb, Stream: VectorStream, MaxLen: 10000, Logger: log}
}

// Schedule outlives the request that triggered it; failures are logged only.
func (q *VectorQueue) Schedule(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	err := q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: q.Stream,
		MaxLen: q.MaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"user_id":      userID,
			"requested_at": strconv.FormatInt(time.Now().UnixMilli(), 10),
		},
	}).Err()
	if err != nil {
		q.Logger.WithError(err).WithField("user_id", userID).Error("failed to schedule vector sync")
	}
}

// VectorWorkerPool consumes VectorStream and rebuilds vector documents.
type VectorWorkerPool struct {
	Redis      *redis.Client
	Vectors    services.VectorService
	NumWorkers int

	Logger logrus.FieldLogger

	Stream         string
	Group          string
	ConsumerPrefix string

	publish func(ctx context.Context, channel, payload string) error
}

func (p *VectorWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Vectors == nil {
		return errors.New("VectorWorkerPool missing dependency: Redis/Vectors must be set")
	}
	if p.Stream == "" {
		p.Stream = VectorStream
	}
	if p.Group == "" {
		p.Group = VectorGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.publish == nil {
		p.publish = func(ctx context.Context, channel, payload string) error {
			return p.Redis.Publish(ctx, channel, payload).Err()
		}
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *VectorWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *VectorWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	userID, _ := msg.Values["user_id"].(string)
	if userID == "" {
		return
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"user_id":  userID,
	})

	ev := ProfileEvent{Type: EventVectorSynced, UserID: userID}
	if err := p.Vectors.Sync(ctx, userID); err != nil {
		log.WithError(err).Error("vector sync failed")
		ev.Type = EventVectorFailed
		ev.Message = "search index update failed"
	} else {
		log.Debug("vector document synced")
	}
	ev.At = time.Now().UnixMilli()

	payload, _ := json.Marshal(ev)
	if err := p.publish(ctx, EventsChannel(userID), string(payload)); err != nil {
		log.WithError(err).Warn("failed to publish profile event")
	}
}

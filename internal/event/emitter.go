package event

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Emitter delivers events best-effort. Implementations must never block the
// caller on downstream consumers and must swallow (log) their own failures.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}

type broadcaster interface {
	Broadcast(message []byte)
}

// LogEmitter writes every event to the process log. Used on its own in
// development and as a safety net alongside the hub emitter.
type LogEmitter struct {
	logger *log.Logger
}

func NewLogEmitter(logger *log.Logger) *LogEmitter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(_ context.Context, evt Event) {
	if e == nil || evt == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		e.logger.Printf("[Events] marshal error type=%s err=%v", evt.Kind(), err)
		return
	}
	e.logger.Printf("[Events] emitted type=%s payload=%s", evt.Kind(), b)
}

// HubEmitter pushes enveloped events onto the websocket hub for connected
// downstream consumers.
type HubEmitter struct {
	hub    broadcaster
	logger *log.Logger
	now    func() time.Time
}

func NewHubEmitter(hub broadcaster, logger *log.Logger) *HubEmitter {
	return &HubEmitter{hub: hub, logger: logger, now: time.Now}
}

func (e *HubEmitter) Emit(_ context.Context, evt Event) {
	if e == nil || e.hub == nil || evt == nil {
		return
	}

	env := Envelope{Type: evt.Kind(), Timestamp: e.now().UTC(), Payload: evt}
	b, err := json.Marshal(env)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("[Events] envelope marshal error type=%s err=%v", evt.Kind(), err)
		}
		return
	}
	e.hub.Broadcast(b)
}

// Multi fans one event out to several emitters.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, evt Event) {
	for _, e := range m {
		if e == nil {
			continue
		}
		e.Emit(ctx, evt)
	}
}

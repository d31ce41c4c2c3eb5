package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pthm-cable/hangry/storage"
	"github.com/pthm-cable/hangry/telemetry"
)

// EventHandler receives session events synchronously, in emission order.
type EventHandler func(telemetry.Event)

// Subscribe registers h for every future event.
func (g *Game) Subscribe(h EventHandler) {
	g.subscribers = append(g.subscribers, h)
}

func (g *Game) emit(ev telemetry.Event) {
	g.seq++
	ev.Seq = g.seq
	g.collector.Record(ev)
	for _, h := range g.subscribers {
		h(ev)
	}
}

// LogEventsTo persists every future event to repo. Write failures are
// logged and do not interrupt the session.
func (g *Game) LogEventsTo(repo storage.EventRepository) {
	g.Subscribe(func(ev telemetry.Event) {
		payload, err := json.Marshal(ev)
		if err != nil {
			slog.Error("failed to encode event", "seq", ev.Seq, "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = repo.Append(ctx, storage.EventRecord{
			SessionID: g.id,
			Seq:       ev.Seq,
			Tick:      ev.Tick,
			Type:      string(ev.Type),
			FishID:    ev.FishID,
			Payload:   payload,
		})
		if err != nil {
			slog.Error("failed to persist event", "seq", ev.Seq, "type", ev.Type, "error", err)
		}
	})
}

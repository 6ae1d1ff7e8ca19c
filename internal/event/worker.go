package event

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type worker struct {
	mutex         sync.RWMutex
	subscriptions map[string][]func(event Queueable)
}

var (
	instance = &worker{
		subscriptions: map[string][]func(event Queueable){},
	}
	l = log.WithField("context", "event_worker")
)

// Subscribe registers fn for every event of the given type. Subscribers run
// on the worker goroutine and must not block.
func Subscribe(eventType string, fn func(event Queueable)) {
	instance.mutex.Lock()
	defer instance.mutex.Unlock()
	instance.subscriptions[eventType] = append(instance.subscriptions[eventType], fn)
}

func RunWorker(ctx context.Context) {
	instance.Run(ctx)
}

func (w *worker) Run(ctx context.Context) {
	done := ctx.Done()

	go func() {
		l.Trace("events runner go")
		var event Queueable
		for {
			select {
			case <-done:
				l.Info("shutting down event worker by cancelled context")
				return
			default:
				time.Sleep(1 * time.Millisecond)
				event = Bus.DQ()
				if event == nil {
					continue
				}
				if event.Expired() {
					continue
				}

				w.mutex.RLock()
				subscribers := w.subscriptions[event.Type()]
				w.mutex.RUnlock()
				if len(subscribers) == 0 {
					continue
				}
				for _, sub := range subscribers {
					sub(event)
					if event.IsDropped() {
						break
					}
				}
				event.Process()
			}
		}
	}()
}

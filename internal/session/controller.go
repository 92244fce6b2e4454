package session

import (
	"context"
	"sync"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/logger"
)

// EventType mirrors the identity gateway's auth state change events.
type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// Event is one auth state change reported by the gateway listener.
type Event struct {
	Type     EventType
	Identity *domain.Identity
}

// Listener is the half of the identity gateway the controller consumes: a
// one-shot session check plus a change subscription. Subscribe must deliver
// every event that fires after it returns.
type Listener interface {
	Subscribe(handler func(Event)) (unsubscribe func())
	Session(ctx context.Context) (*domain.Identity, error)
}

// EffectKind classifies a deferred side effect.
type EffectKind string

const (
	EffectNotify   EffectKind = "NOTIFY"
	EffectNavigate EffectKind = "NAVIGATE"
)

// Effect is a side effect queued by an event handler. Effects run strictly
// after the state mutation that produced them, in enqueue order.
type Effect struct {
	Kind    EffectKind
	Message string
	Route   string
}

// Sink receives drained effects.
type Sink interface {
	Notify(message string)
	Navigate(route string)
}

// Controller is the single writer of the session Store. Bootstrap attaches
// the gateway listener before running the initial session check, so no event
// fired after attach can be lost; the loading state is cleared exactly once,
// by the bootstrap path only. Concurrent reports resolve last-write-wins.
type Controller struct {
	store    *Store
	listener Listener
	sink     Sink

	effects chan Effect
	done    chan struct{}
	wg      sync.WaitGroup

	bootstrapOnce sync.Once
	unsubscribe   func()

	closeOnce sync.Once
}

func NewController(store *Store, listener Listener, sink Sink) *Controller {
	c := &Controller{
		store:    store,
		listener: listener,
		sink:     sink,
		effects:  make(chan Effect, 32),
		done:     make(chan struct{}),
	}
	c.wg.Add(1)
	go c.drain()
	return c
}

// Bootstrap subscribes to auth changes and then resolves the initial session.
// Whatever order the subscription events and the initial check complete in,
// it leaves the store out of the loading state with the gateway's most recent
// identity. Safe to call once; later calls are no-ops.
func (c *Controller) Bootstrap(ctx context.Context) error {
	var err error
	c.bootstrapOnce.Do(func() {
		// Attach before the initial check so nothing fired in between is lost.
		c.unsubscribe = c.listener.Subscribe(c.handleEvent)

		var identity *domain.Identity
		identity, err = c.listener.Session(ctx)
		if err != nil {
			logger.Log.Error("session bootstrap check failed", "error", err)
		} else {
			c.store.applyIdentity(identity)
		}
		c.store.completeBootstrap()
	})
	return err
}

// handleEvent applies the identity mutation first, then queues effects. The
// drain goroutine guarantees every effect observes the post-mutation store.
func (c *Controller) handleEvent(evt Event) {
	c.store.applyIdentity(evt.Identity)

	switch evt.Type {
	case EventSignedIn:
		c.enqueue(Effect{Kind: EffectNotify, Message: "Successfully logged in"})
		c.enqueue(Effect{Kind: EffectNavigate, Route: "/"})
	case EventSignedOut:
		c.enqueue(Effect{Kind: EffectNotify, Message: "You have been signed out"})
		c.enqueue(Effect{Kind: EffectNavigate, Route: "/login"})
	}
}

func (c *Controller) enqueue(e Effect) {
	select {
	case c.effects <- e:
	case <-c.done:
	}
}

func (c *Controller) drain() {
	defer c.wg.Done()
	for {
		select {
		case e := <-c.effects:
			c.dispatch(e)
		case <-c.done:
			// Flush anything already queued before exiting.
			for {
				select {
				case e := <-c.effects:
					c.dispatch(e)
				default:
					return
				}
			}
		}
	}
}

func (c *Controller) dispatch(e Effect) {
	switch e.Kind {
	case EffectNotify:
		c.sink.Notify(e.Message)
	case EffectNavigate:
		c.sink.Navigate(e.Route)
	}
}

// Close detaches the listener and stops the effect drain after flushing
// queued effects.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		close(c.done)
		c.wg.Wait()
	})
}

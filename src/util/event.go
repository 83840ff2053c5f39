package util

import (
	"context"
	"sync"
	"time"
)

// Emitter is a broadcast event bus. The zero value is ready for use.
type Emitter struct {
	// The release attribute determines how much time an event should be
	// buffered to prevent the emission of duplicate events.
	// A zero value will disable buffering.
	Release time.Duration

	listeners       map[<-chan interface{}]chan interface{}
	listenerClosers map[<-chan interface{}]chan struct{}
	lock            sync.RWMutex

	release map[interface{}]struct{}
}

func (emitter *Emitter) init() {
	emitter.lock.RLock()
	shouldInit := emitter.listeners == nil
	emitter.lock.RUnlock()
	if shouldInit {
		emitter.lock.Lock()
		if emitter.listeners == nil {
			emitter.listeners = map[<-chan interface{}]chan interface{}{}
			emitter.listenerClosers = map[<-chan interface{}]chan struct{}{}
			emitter.release = map[interface{}]struct{}{}
		}
		emitter.lock.Unlock()
	}
}

func (emitter *Emitter) broadcast(event interface{}) {
	emitter.lock.RLock()
	defer emitter.lock.RUnlock()
	for _, listener := range emitter.listeners {
		closer := emitter.listenerClosers[listener]
		go func(listener chan interface{}) {
			select {
			case listener <- event:
			case <-closer:
			}
		}(listener)
	}
}

// Emit broadcasts the event to all active listeners.
//
// Events used with a non-zero Release must be comparable, as duplicates are
// tracked by value.
func (emitter *Emitter) Emit(event interface{}) {
	emitter.init()

	emitter.lock.RLock()
	defer emitter.lock.RUnlock()

	if emitter.Release == 0 {
		go emitter.broadcast(event)
		return
	}

	// Check whether the event is already scheduled.
	if _, ok := emitter.release[event]; ok {
		return
	}

	go func() {
		emitter.lock.Lock()
		emitter.release[event] = struct{}{}
		emitter.lock.Unlock()

		time.Sleep(emitter.Release)
		emitter.broadcast(event)

		emitter.lock.Lock()
		delete(emitter.release, event)
		emitter.lock.Unlock()
	}()
}

// Listen registers a new listener channel. The channel is closed and removed
// when the context is canceled.
func (emitter *Emitter) Listen(ctx context.Context) <-chan interface{} {
	emitter.init()

	emitter.lock.Lock()
	defer emitter.lock.Unlock()

	ch := make(chan interface{}, 1)
	emitter.listeners[ch] = ch
	emitter.listenerClosers[ch] = make(chan struct{})

	go func() {
		<-ctx.Done()
		emitter.lock.Lock()
		defer emitter.lock.Unlock()
		// Signal any remaining broadcasts to abort writing to the channel.
		close(emitter.listenerClosers[ch])
		close(emitter.listeners[ch])
		delete(emitter.listenerClosers, ch)
		delete(emitter.listeners, ch)
	}()
	return ch
}

// Eventer is implemented by types which broadcast state changes over an
// Emitter.
type Eventer interface {
	Events() *Emitter
}

//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package conversation

import (
	"sync"

	"trpc.group/trpc-go/trpc-conversation-go/event"
	"trpc.group/trpc-go/trpc-conversation-go/log"
)

// Callback receives events appended to a conversation's log, in log order.
// Callbacks run synchronously on the emitting goroutine; a slow callback
// slows the conversation. Wrap long work in an AsyncSubscriber.
type Callback func(e event.Event)

// bus multicasts events to subscribers in subscription order. Publish is
// serialized by the caller (the controller's emit path), so subscribers
// observe every event exactly once, in log-append order.
type bus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	cb Callback
}

func newBus() *bus {
	return &bus{}
}

// subscribe registers cb and returns a function that removes it.
func (b *bus) subscribe(cb Callback) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, cb: cb})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subs {
			if b.subs[i].id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// publish delivers e to every subscriber. A panicking subscriber is logged
// and does not stop delivery to the rest.
func (b *bus) publish(e event.Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.Unlock()
	for _, s := range subs {
		deliver(s.cb, e)
	}
}

func deliver(cb Callback, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("conversation callback panicked on event %s: %v", e.ID, r)
		}
	}()
	cb(e.Clone())
}

// AsyncSubscriber decouples a callback from the conversation's emit path.
// Events are queued in order and handed to the wrapped callback on a
// dedicated goroutine, so slow consumers (UIs, persistence) do not stall
// the step engine. The queue is unbounded; event order is preserved.
type AsyncSubscriber struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []event.Event
	closed bool
	done   chan struct{}
}

// NewAsyncSubscriber starts an async subscriber delivering to cb. The
// returned subscriber's Callback method is what gets subscribed; call Close
// to drain and stop the delivery goroutine.
func NewAsyncSubscriber(cb Callback) *AsyncSubscriber {
	a := &AsyncSubscriber{done: make(chan struct{})}
	a.cond = sync.NewCond(&a.mu)
	go a.loop(cb)
	return a
}

// Callback enqueues the event for asynchronous delivery. Events received
// after Close are dropped.
func (a *AsyncSubscriber) Callback(e event.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.queue = append(a.queue, e)
	a.cond.Signal()
}

// Close stops intake, waits for queued events to be delivered, and stops
// the delivery goroutine.
func (a *AsyncSubscriber) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	a.cond.Signal()
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncSubscriber) loop(cb Callback) {
	defer close(a.done)
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if len(a.queue) == 0 && a.closed {
			a.mu.Unlock()
			return
		}
		e := a.queue[0]
		a.queue = a.queue[1:]
		a.mu.Unlock()
		deliver(cb, e)
	}
}

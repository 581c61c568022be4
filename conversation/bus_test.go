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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-conversation-go/event"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b := newBus()
	var got []string
	b.subscribe(func(e event.Event) {
		got = append(got, e.Message.Text())
	})

	b.publish(userEvent("one"))
	b.publish(userEvent("two"))
	b.publish(userEvent("three"))

	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestBus_SubscribersCalledInSubscriptionOrder(t *testing.T) {
	b := newBus()
	var got []string
	b.subscribe(func(event.Event) { got = append(got, "first") })
	b.subscribe(func(event.Event) { got = append(got, "second") })

	b.publish(userEvent("x"))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := newBus()
	var count int
	unsubscribe := b.subscribe(func(event.Event) { count++ })

	b.publish(userEvent("one"))
	unsubscribe()
	b.publish(userEvent("two"))

	assert.Equal(t, 1, count)
}

func TestBus_PanickingSubscriberDoesNotStopDelivery(t *testing.T) {
	b := newBus()
	var delivered bool
	b.subscribe(func(event.Event) { panic("boom") })
	b.subscribe(func(event.Event) { delivered = true })

	assert.NotPanics(t, func() { b.publish(userEvent("x")) })
	assert.True(t, delivered)
}

func TestBus_SubscriberGetsClone(t *testing.T) {
	b := newBus()
	var seen event.Event
	b.subscribe(func(e event.Event) { seen = e })

	original := userEvent("hi")
	b.publish(original)

	require.NotNil(t, seen.Message)
	seen.Message.Content[0].Text = "mutated"
	assert.Equal(t, "hi", original.Message.Text())
}

func TestAsyncSubscriber_PreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	async := NewAsyncSubscriber(func(e event.Event) {
		mu.Lock()
		got = append(got, e.Message.Text())
		mu.Unlock()
	})

	b := newBus()
	b.subscribe(async.Callback)
	for _, text := range []string{"one", "two", "three", "four"} {
		b.publish(userEvent(text))
	}
	async.Close()

	assert.Equal(t, []string{"one", "two", "three", "four"}, got)
}

func TestAsyncSubscriber_CloseDrainsQueue(t *testing.T) {
	var count int
	async := NewAsyncSubscriber(func(event.Event) { count++ })
	for i := 0; i < 100; i++ {
		async.Callback(userEvent("x"))
	}
	async.Close()
	assert.Equal(t, 100, count)

	// Events after Close are dropped.
	async.Callback(userEvent("late"))
	assert.Equal(t, 100, count)
}

// Package events dispatches the installer's lifecycle notifications.
//
// Each topic is a constant with a fixed payload type, documented next to the
// constant. Listeners registered with Listen run synchronously, in
// registration order, before Fire returns, and may veto the step by
// returning an error. Observers registered with Subscribe receive the same
// notifications asynchronously through a juju/pubsub hub.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/juju/pubsub/v2"
)

// Topic names an installer notification
type Topic string

const (
	// TopicSchema fires after the foundation migrations ran. Payload: SchemaMigrated.
	TopicSchema Topic = "install.schema"
	// TopicUser fires before the administrator is persisted. Payload: installation.UserCreating.
	TopicUser Topic = "install:user"
	// TopicACL fires after the ACL was seeded. Payload: installation.ACLSeeded.
	TopicACL Topic = "install:acl"
)

// SchemaMigrated is the payload of TopicSchema
type SchemaMigrated struct{}

// Listener handles a notification synchronously
type Listener func(ctx context.Context, payload interface{}) error

// Dispatcher fans notifications out to listeners and hub subscribers
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[Topic][]Listener
	hub       *pubsub.SimpleHub
}

// NewDispatcher creates a dispatcher with its own hub
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Topic][]Listener),
		hub:       pubsub.NewSimpleHub(nil),
	}
}

// Listen registers a synchronous listener for topic
func (d *Dispatcher) Listen(topic Topic, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[topic] = append(d.listeners[topic], l)
}

// Subscribe registers an asynchronous observer for topic. The returned
// function unsubscribes.
func (d *Dispatcher) Subscribe(topic Topic, handler func(topic Topic, payload interface{})) func() {
	return d.hub.Subscribe(string(topic), func(t string, data interface{}) {
		handler(Topic(t), data)
	})
}

// Fire runs the listeners of topic, stopping at the first error, then
// publishes payload to the hub
func (d *Dispatcher) Fire(ctx context.Context, topic Topic, payload interface{}) error {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[topic]...)
	d.mu.RUnlock()

	for _, l := range listeners {
		if err := l(ctx, payload); err != nil {
			return fmt.Errorf("%s listener: %w", topic, err)
		}
	}

	d.hub.Publish(string(topic), payload)
	return nil
}

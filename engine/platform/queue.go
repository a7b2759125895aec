package platform

import (
	"github.com/spaghettifunk/eae6320/engine/containers"
)

const DefaultMessageQueueSize = 256

// MessagePump holds the pending messages of a host and the registry of
// window owners. Hosts embed it and feed it from their OS callbacks.
//
// A posted quit is held apart from the queue and is only returned once every
// other pending message was peeked, the same way a quit message is delivered
// last by desktop message loops.
type MessagePump struct {
	queue    *containers.RingQueue[Message]
	registry *Registry
	quit     *Message
}

func NewMessagePump(size int) *MessagePump {
	if size <= 0 {
		size = DefaultMessageQueueSize
	}
	return &MessagePump{
		queue:    containers.NewRingQueue[Message](size),
		registry: NewRegistry(),
	}
}

func (p *MessagePump) Registry() *Registry {
	return p.registry
}

// Post appends msg to the queue. It fails when the queue is full.
func (p *MessagePump) Post(msg Message) error {
	if msg.Kind == MessageQuit {
		p.PostQuitMessage(msg.ExitCode, msg.Reason)
		return nil
	}
	return p.queue.Enqueue(msg)
}

func (p *MessagePump) Pending() int {
	n := p.queue.Len()
	if p.quit != nil {
		n++
	}
	return n
}

func (p *MessagePump) PeekMessage() (Message, bool) {
	if msg, err := p.queue.Dequeue(); err == nil {
		return msg, true
	}
	if p.quit != nil {
		msg := *p.quit
		p.quit = nil
		return msg, true
	}
	return Message{}, false
}

// PostQuitMessage keeps the first quit that was posted. Later ones are
// dropped until it has been delivered.
func (p *MessagePump) PostQuitMessage(exitCode int, reason ExitReason) {
	if p.quit != nil {
		return
	}
	p.quit = &Message{
		Kind:     MessageQuit,
		ExitCode: exitCode,
		Reason:   reason,
	}
}

// DispatchMessage calls the owner of msg.Window. The registry entry is
// released once MessageDestroyed was delivered.
func (p *MessagePump) DispatchMessage(msg Message) {
	owner, ok := p.registry.Lookup(msg.Window)
	if !ok {
		return
	}
	owner.OnMessage(msg)
	if msg.Kind == MessageDestroyed {
		_ = p.registry.Release(msg.Window)
	}
}

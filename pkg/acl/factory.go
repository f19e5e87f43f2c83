package acl

import "sync"

// Factory creates ACL containers and hands back the same container for a
// scope name on every call
type Factory struct {
	mu         sync.Mutex
	containers map[string]*Container
}

func NewFactory() *Factory {
	return &Factory{containers: make(map[string]*Container)}
}

// Make returns the container for name, creating it on first use
func (f *Factory) Make(name string) *Container {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.containers[name]; ok {
		return c
	}
	c := New(name)
	f.containers[name] = c
	return c
}

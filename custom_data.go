package pinlog

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// CustomData is a key/value bag embedded in crash reports under CUSTOM_DATA.
// It is safe for concurrent use.
type CustomData struct {
	mu     sync.RWMutex
	values map[string]any
}

func newCustomData() *CustomData {
	return &CustomData{values: make(map[string]any)}
}

// Put stores value under name, replacing any previous value.
func (c *CustomData) Put(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
}

// Get returns the value stored under name.
func (c *CustomData) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// String returns the value under name as text.
func (c *CustomData) String(name string) string {
	v, ok := c.Get(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Remove deletes name.
func (c *CustomData) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
}

// Names returns the stored keys in order.
func (c *CustomData) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.values))
	for k := range c.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the current values.
func (c *CustomData) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

func (c *CustomData) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

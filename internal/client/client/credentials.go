package client

import "sync"

// Credentials holds the bearer token attached to outgoing requests.
// The session manager owns its lifecycle; transports only read it.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

func NewCredentials() *Credentials {
	return &Credentials{}
}

func (c *Credentials) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credentials) Clear() {
	c.Set("")
}

// Token returns the current token or "" when none is held.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

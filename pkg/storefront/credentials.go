// Package storefront is a Go client for the store API. It keeps the caller's
// session in an injected CredentialStore and refreshes the access token
// transparently.
package storefront

import "sync"

// CredentialStore holds the session tokens. Implementations must be safe for
// concurrent use.
type CredentialStore interface {
	Tokens() (access, refresh string)
	SetAccess(access string)
	Set(access, refresh string)
	Clear()
}

// MemoryCredentials keeps tokens in process memory.
type MemoryCredentials struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (m *MemoryCredentials) Tokens() (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access, m.refresh
}

func (m *MemoryCredentials) SetAccess(access string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
}

func (m *MemoryCredentials) Set(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
}

func (m *MemoryCredentials) Clear() {
	m.Set("", "")
}

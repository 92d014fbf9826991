package server

import (
	"sync"

	"github.com/C6OI/protanki-server/internal/battle"
)

// Registry - справочник живых соединений сервера.
// Реализует battle.SocketDirectory для рассылок на экран выбора битв.
type Registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[*Client]struct{})}
}

// Add регистрирует соединение после успешного логина.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	r.clients[c] = struct{}{}
	r.mu.Unlock()
}

// Remove убирает соединение при отключении.
func (r *Registry) Remove(c *Client) {
	r.mu.Lock()
	delete(r.clients, c)
	r.mu.Unlock()
}

// Sockets возвращает снапшот текущих соединений.
func (r *Registry) Sockets() []battle.Socket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sockets := make([]battle.Socket, 0, len(r.clients))
	for c := range r.clients {
		sockets = append(sockets, c)
	}
	return sockets
}

// Count возвращает количество живых соединений.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

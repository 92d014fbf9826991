package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/C6OI/protanki-server/internal/maps"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// Service владеет запущенными битвами. Зависимости (справочник сокетов,
// реестр карт, настройки) передаются явно с композиционного корня.
type Service struct {
	ctx       context.Context
	directory SocketDirectory
	maps      *maps.Registry
	settings  Settings

	mu      sync.RWMutex
	battles map[string]*Battle
}

func NewService(ctx context.Context, directory SocketDirectory, registry *maps.Registry, settings Settings) *Service {
	return &Service{
		ctx:       ctx,
		directory: directory,
		maps:      registry,
		settings:  settings,
		battles:   make(map[string]*Battle),
	}
}

// CreateBattle создает и регистрирует битву на карте mapName.
func (s *Service) CreateBattle(title, mapName string, mode Mode) (*Battle, error) {
	m, err := s.maps.Map(mapName)
	if err != nil {
		return nil, fmt.Errorf("create battle: %w", err)
	}

	handler := newModeHandler(mode)
	if handler == nil {
		return nil, fmt.Errorf("create battle: unknown mode %q", mode)
	}

	b := New(s.ctx, title, m, handler, NewDamageProcessor(), s.directory, s.settings)

	s.mu.Lock()
	s.battles[b.Id] = b
	s.mu.Unlock()

	logger.Log.WithField("battle", b.Id).Infof("Created battle %q on %s (%s)", title, mapName, mode)
	return b, nil
}

// Battle возвращает битву по id.
func (s *Service) Battle(id string) (*Battle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.battles[id]
	if !ok {
		return nil, fmt.Errorf("unknown battle: %q", id)
	}
	return b, nil
}

// Battles возвращает снапшот всех битв.
func (s *Service) Battles() []*Battle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Battle, 0, len(s.battles))
	for _, b := range s.battles {
		list = append(list, b)
	}
	return list
}

// Close завершает все битвы (используется при graceful shutdown).
func (s *Service) Close() {
	for _, b := range s.Battles() {
		b.Close()
	}
}

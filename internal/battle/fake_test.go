package battle

import (
	"context"
	"sync"
	"testing"

	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/maps"
	"github.com/C6OI/protanki-server/internal/protocol"
)

// fakeSocket - тестовая реализация Socket с записью всех отправленных команд.
type fakeSocket struct {
	mu       sync.Mutex
	user     *garage.User
	screen   Screen
	player   *Player
	selected *Battle
	active   bool
	sent     []protocol.Command
}

func newFakeSocket(username string) *fakeSocket {
	return &fakeSocket{
		user: &garage.User{
			Username:  username,
			Rank:      1,
			Equipment: garage.DefaultEquipment(),
		},
		screen: ScreenBattleSelect,
		active: true,
	}
}

func (s *fakeSocket) Send(cmd protocol.Command) {
	s.mu.Lock()
	s.sent = append(s.sent, cmd)
	s.mu.Unlock()
}

func (s *fakeSocket) User() *garage.User { s.mu.Lock(); defer s.mu.Unlock(); return s.user }

func (s *fakeSocket) Screen() Screen          { s.mu.Lock(); defer s.mu.Unlock(); return s.screen }
func (s *fakeSocket) SetScreen(screen Screen) { s.mu.Lock(); s.screen = screen; s.mu.Unlock() }

func (s *fakeSocket) Player() *Player          { s.mu.Lock(); defer s.mu.Unlock(); return s.player }
func (s *fakeSocket) SetPlayer(player *Player) { s.mu.Lock(); s.player = player; s.mu.Unlock() }

func (s *fakeSocket) SelectedBattle() *Battle { s.mu.Lock(); defer s.mu.Unlock(); return s.selected }

func (s *fakeSocket) Active() bool { s.mu.Lock(); defer s.mu.Unlock(); return s.active }

// commands возвращает отправленные команды с данным именем.
func (s *fakeSocket) commands(name protocol.CommandName) []protocol.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []protocol.Command
	for _, cmd := range s.sent {
		if cmd.Name == name {
			out = append(out, cmd)
		}
	}
	return out
}

func (s *fakeSocket) reset() {
	s.mu.Lock()
	s.sent = nil
	s.mu.Unlock()
}

// fakeDirectory - тестовый справочник сокетов.
type fakeDirectory struct {
	mu      sync.Mutex
	sockets []Socket
}

func (d *fakeDirectory) add(s Socket) {
	d.mu.Lock()
	d.sockets = append(d.sockets, s)
	d.mu.Unlock()
}

func (d *fakeDirectory) Sockets() []Socket {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Socket, len(d.sockets))
	copy(out, d.sockets)
	return out
}

func testMap(t *testing.T, name string) *maps.Map {
	t.Helper()

	m, err := maps.NewRegistry().Map(name)
	if err != nil {
		t.Fatalf("map %q: %v", name, err)
	}
	return m
}

// newTestBattle создает DM битву на карте sandbox (без точек спавна).
func newTestBattle(t *testing.T, directory SocketDirectory) *Battle {
	t.Helper()

	b := New(context.Background(), "Test Battle", testMap(t, "sandbox"),
		NewDeathmatchModeHandler(), NewDamageProcessor(), directory, DefaultSettings())
	t.Cleanup(b.Close)
	return b
}

// joinPlayer заводит игрока с танком в битву.
func joinPlayer(t *testing.T, b *Battle, socket *fakeSocket) *Player {
	t.Helper()

	player, err := b.AddPlayer(socket, TeamNone, false)
	if err != nil {
		t.Fatalf("AddPlayer(%s): %v", socket.User().Username, err)
	}
	player.CreateTank()
	return player
}

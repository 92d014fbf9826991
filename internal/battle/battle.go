package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/C6OI/protanki-server/internal/maps"
	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// Team - командная принадлежность игрока битвы.
type Team string

const (
	TeamNone Team = "NONE"
	TeamRed  Team = "RED"
	TeamBlue Team = "BLUE"
)

// Settings - параметры битвы, прокинутые с композиционного корня.
type Settings struct {
	Fund               int
	ScoreLimit         int
	TimeLimit          int
	SuicideRestartTime int
}

// DefaultSettings - дефолты для тестов и автосозданных битв.
func DefaultSettings() Settings {
	return Settings{
		Fund:               0,
		ScoreLimit:         300,
		TimeLimit:          600,
		SuicideRestartTime: 10000,
	}
}

// Battle - одна запущенная битва и ее домен рассылки:
// "отправить в битву" означает "отправить каждому подключенному игроку битвы".
type Battle struct {
	Id    string
	Title string
	Map   *maps.Map

	Mode     ModeHandler
	Damage   DamageProcessor
	Settings Settings

	ctx    context.Context
	cancel context.CancelFunc

	directory SocketDirectory

	mu      sync.RWMutex
	fund    int
	players []*Player // порядок вставки = порядок входа
}

// New создает битву. directory нужен для рассылок на экран выбора битв
// при выходе игроков.
func New(ctx context.Context, title string, m *maps.Map, mode ModeHandler, damage DamageProcessor, directory SocketDirectory, settings Settings) *Battle {
	bctx, cancel := context.WithCancel(ctx)

	b := &Battle{
		Id:        uuid.NewString(),
		Title:     title,
		Map:       m,
		Mode:      mode,
		Damage:    damage,
		Settings:  settings,
		ctx:       bctx,
		cancel:    cancel,
		directory: directory,
		fund:      settings.Fund,
	}

	if binder, ok := damage.(interface{ bind(*Battle) }); ok {
		binder.bind(b)
	}

	return b
}

// Fund - текущий призовой фонд.
func (b *Battle) Fund() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fund
}

// AddFund увеличивает призовой фонд.
func (b *Battle) AddFund(delta int) {
	b.mu.Lock()
	b.fund += delta
	b.mu.Unlock()
}

// Players возвращает снапшот состава битвы в порядке входа.
// Рассылки идут по снапшоту: вошедшие позже не получают уже начатые рассылки.
func (b *Battle) Players() []*Player {
	b.mu.RLock()
	defer b.mu.RUnlock()

	players := make([]*Player, len(b.players))
	copy(players, b.players)
	return players
}

// PlayerByName ищет игрока битвы по имени пользователя.
func (b *Battle) PlayerByName(username string) *Player {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, p := range b.players {
		if p.Username() == username {
			return p
		}
	}
	return nil
}

// TankById разрешает танк по id в пределах битвы.
// Ноль совпадений - ErrTargetNotFound. Дубликаты id исключены выше по стеку:
// id танка = имя пользователя, а состав уникален по пользователю.
func (b *Battle) TankById(id string) (*Tank, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, p := range b.players {
		if tank := p.Tank(); tank != nil && tank.Id == id {
			return tank, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, id)
}

// AddPlayer создает игрока битвы для соединения и ставит его в состав.
// Инвариант: пользователь занимает не более одного слота на всем сервере.
func (b *Battle) AddPlayer(socket Socket, team Team, spectator bool) (*Player, error) {
	if socket.User() == nil {
		return nil, ErrNoUser
	}
	if socket.Player() != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserAlreadyInBattle, socket.User().Username)
	}

	b.mu.Lock()
	for _, p := range b.players {
		if p.Username() == socket.User().Username {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyInBattle, socket.User().Username)
		}
	}

	player := newPlayer(b.ctx, socket, b, team, spectator)
	b.players = append(b.players, player)
	b.mu.Unlock()

	socket.SetPlayer(player)
	socket.SetScreen(ScreenBattle)

	logger.Log.WithField("battle", b.Id).Infof("Player %s joined battle", player.Username())
	return player, nil
}

// removePlayer убирает игрока из состава. Вызывается только из Deactivate.
func (b *Battle) removePlayer(player *Player) {
	b.mu.Lock()
	for i, p := range b.players {
		if p == player {
			b.players = append(b.players[:i], b.players[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}

// SendTo доставляет команду каждому подключенному игроку битвы,
// опционально пропуская отправителя. Fan-out по снапшоту состава,
// мертвые получатели молча пропускаются.
func (b *Battle) SendTo(cmd protocol.Command, exclude ...*Player) {
	skip := make(map[*Player]struct{}, len(exclude))
	for _, p := range exclude {
		skip[p] = struct{}{}
	}

	for _, p := range b.Players() {
		if _, ok := skip[p]; ok {
			continue
		}
		if !p.Socket.Active() {
			continue
		}
		p.Socket.Send(cmd)
	}
}

// Close завершает битву: деактивирует всех игроков и отменяет контекст.
func (b *Battle) Close() {
	for _, p := range b.Players() {
		p.Deactivate()
	}
	b.cancel()
}

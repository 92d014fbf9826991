package battle

import (
	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
)

// Screen - текущий UI-экран соединения.
type Screen string

const (
	ScreenBattleSelect Screen = "BATTLE_SELECT"
	ScreenGarage       Screen = "GARAGE"
	ScreenBattle       Screen = "BATTLE"
)

// Socket - одно аутентифицированное соединение с точки зрения игровой логики.
// Реализуется websocket-клиентом в internal/server; в тестах - фейком.
// Socket ничем не владеет в битве, это только адресуемый приемник команд.
type Socket interface {
	// Send ставит одну команду в исходящую очередь соединения.
	// Не блокируется и не возвращает ошибку: мертвый получатель не должен
	// прерывать рассылку остальным.
	Send(cmd protocol.Command)

	// User - аутентифицированный пользователь (nil до логина).
	User() *garage.User

	Screen() Screen
	SetScreen(screen Screen)

	// Player - участие этого соединения в битве (nil вне битвы).
	Player() *Player
	SetPlayer(player *Player)

	// SelectedBattle - битва, выбранная на экране выбора битв (nil если нет).
	SelectedBattle() *Battle

	// Active - живо ли соединение.
	Active() bool
}

// SocketDirectory - справочник всех подключенных сокетов сервера.
// Передается в битву явно (DI), энтити-методы не делают глобальных лукапов.
type SocketDirectory interface {
	// Sockets возвращает снапшот текущих соединений.
	Sockets() []Socket
}

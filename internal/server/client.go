package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/C6OI/protanki-server/internal/battle"
	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
	"github.com/C6OI/protanki-server/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и игровой логикой.
// Реализует battle.Socket: адресуемый приемник исходящих команд плюс
// текущий экран, пользователь и ссылка на игрока битвы.
type Client struct {
	SessionId string

	conn       *websocket.Conn
	dispatcher *battle.Dispatcher
	users      *garage.Store
	registry   *Registry

	send   chan protocol.Command
	active atomic.Bool

	mu             sync.Mutex
	user           *garage.User
	screen         battle.Screen
	player         *battle.Player
	selectedBattle *battle.Battle
}

func NewClient(conn *websocket.Conn, dispatcher *battle.Dispatcher, users *garage.Store, registry *Registry) *Client {
	return &Client{
		SessionId:  utils.GenerateID(),
		conn:       conn,
		dispatcher: dispatcher,
		users:      users,
		registry:   registry,
		send:       make(chan protocol.Command, 256),
		screen:     battle.ScreenBattleSelect,
	}
}

// --- battle.Socket ---

// Send ставит команду в исходящую очередь. Не блокируется: переполненная
// очередь мертвого клиента не должна тормозить рассылку битвы.
func (c *Client) Send(cmd protocol.Command) {
	select {
	case c.send <- cmd:
	default:
		logger.Log.WithField("session", c.SessionId).Warnf("Send queue full, dropping %q", cmd.Name)
	}
}

func (c *Client) User() *garage.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Client) Screen() battle.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

func (c *Client) SetScreen(screen battle.Screen) {
	c.mu.Lock()
	c.screen = screen
	c.mu.Unlock()
}

func (c *Client) Player() *battle.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

func (c *Client) SetPlayer(player *battle.Player) {
	c.mu.Lock()
	c.player = player
	c.mu.Unlock()
}

func (c *Client) SelectedBattle() *battle.Battle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedBattle
}

func (c *Client) SetSelectedBattle(b *battle.Battle) {
	c.mu.Lock()
	c.selectedBattle = b
	c.mu.Unlock()
}

func (c *Client) Active() bool { return c.active.Load() }

// --- Пампы ---

// readPump читает команды клиента и диспетчеризует их в порядке получения.
// Одна горутина на соединение - гарантия порядка в пределах соединения.
func (c *Client) readPump() {
	defer func() {
		c.active.Store(false)
		c.registry.Remove(c)

		// Выход из битвы при обрыве соединения.
		if player := c.Player(); player != nil {
			player.Deactivate()
		}

		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}

		logger.Log.WithField("session", c.SessionId).Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE (LOGIN)
	// Логин/сессии - внешний коллаборатор; здесь достаточно имени.
	if !c.handshake() {
		return
	}

	// 2. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}

		cmd, err := protocol.Unpack(raw)
		if err != nil {
			logger.Log.WithError(err).Warn("Dropping malformed frame")
			continue
		}

		c.dispatcher.Dispatch(c, cmd)
	}
}

func (c *Client) handshake() bool {
	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		logger.Log.Warn("Handshake failed")
		return false
	}

	cmd, err := protocol.Unpack(raw)
	if err != nil || cmd.Name != protocol.Login || len(cmd.Args) == 0 {
		logger.Log.Warn("Handshake failed: expected login command")
		return false
	}

	var login protocol.LoginData
	if err := json.Unmarshal([]byte(cmd.Args[0]), &login); err != nil {
		logger.Log.WithError(err).Warn("Handshake failed: malformed login")
		return false
	}
	if err := login.Validate(); err != nil {
		logger.Log.WithError(err).Warn("Handshake failed: invalid login")
		return false
	}

	user := c.users.User(login.Username)
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.active.Store(true)
	c.registry.Add(c)

	logger.Log.WithField("session", c.SessionId).Infof("Client logged in as %s", user.Username)
	return true
}

// writePump отправляет команды клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case cmd := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}

			data, err := protocol.Pack(cmd)
			if err != nil {
				logger.Log.WithError(err).Error("failed to pack outgoing command")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Log.WithError(err).Debug("write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

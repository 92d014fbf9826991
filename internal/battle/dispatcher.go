package battle

import (
	"encoding/json"
	"fmt"

	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// Context передает хендлеру исходное соединение и доступ к битвам.
type Context struct {
	Socket  Socket
	Battles *Service
}

// HandlerFunc - контракт любой входящей команды.
// Ошибка прерывает только эту команду; соединение остается живым.
type HandlerFunc func(ctx *Context, args []string) error

// Dispatcher маршрутизирует входящие команды по идентификатору.
// Команды одного соединения обрабатываются в порядке получения
// (диспетчеризацию гонит горутина чтения этого соединения).
type Dispatcher struct {
	service  *Service
	handlers map[protocol.CommandName]HandlerFunc
}

func NewDispatcher(service *Service) *Dispatcher {
	d := &Dispatcher{
		service:  service,
		handlers: make(map[protocol.CommandName]HandlerFunc),
	}
	d.registerHandlers()
	return d
}

// Register ставит хендлер на имя команды. Повторная регистрация - баг.
func (d *Dispatcher) Register(name protocol.CommandName, handler HandlerFunc) {
	if _, ok := d.handlers[name]; ok {
		panic(fmt.Sprintf("dispatcher: duplicate handler for %q", name))
	}
	d.handlers[name] = handler
}

// Dispatch выполняет ровно один зарегистрированный хендлер.
// Незарегистрированные идентификаторы отбрасываются (не фатально).
// Ошибка хендлера логируется и не валит ни цикл чтения, ни других игроков.
func (d *Dispatcher) Dispatch(socket Socket, cmd protocol.Command) {
	handler, ok := d.handlers[cmd.Name]
	if !ok {
		logger.Log.Debugf("Dropping unhandled command %q", cmd.Name)
		return
	}

	ctx := &Context{Socket: socket, Battles: d.service}
	if err := handler(ctx, cmd.Args); err != nil {
		logger.Log.WithError(err).Errorf("Command %q failed", cmd.Name)
	}
}

// TypedHandlerFunc - "чистый" хендлер, работающий с готовой структурой T.
type TypedHandlerFunc[T any] func(ctx *Context, data T) error

// EmptyHandlerFunc - хендлер без полезной нагрузки (ping, self_destruct).
type EmptyHandlerFunc func(ctx *Context) error

// WithData оборачивает типизированный хендлер: распаковка первого аргумента
// из JSON и автоматическая валидация, если T реализует protocol.Validator.
func WithData[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx *Context, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("missing command payload")
		}

		var data T
		if err := json.Unmarshal([]byte(args[0]), &data); err != nil {
			return fmt.Errorf("invalid payload format: %w", err)
		}

		if v, ok := any(data).(protocol.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, data)
	}
}

// WithEmpty - обертка для команд без данных.
func WithEmpty(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx *Context, _ []string) error {
		return handler(ctx)
	}
}

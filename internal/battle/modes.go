package battle

import (
	"sync"

	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// Mode - перечислимый тег режима битвы. Несется рядом с обработчиком режима,
// чтобы выбор slot-release команды был исчерпывающим match-ем по тегу,
// а не проверкой типа в рантайме.
type Mode string

const (
	ModeDeathmatch Mode = "DM"
	ModeTeam       Mode = "TEAM"
)

// ModeHandler - подключаемая политика режима матча. Ядро зависит от нее
// только в четырех точках: вход игрока (конец stage 2), выход (deactivate)
// и два момента локальной инициализации UI.
type ModeHandler interface {
	Mode() Mode

	PlayerJoin(player *Player)
	PlayerLeave(player *Player)

	// InitModeModel вызывается до общей инициализации GUI.
	InitModeModel(player *Player)
	// InitPostGui вызывается после общей инициализации GUI.
	InitPostGui(player *Player)
}

// DeathmatchModeHandler - каждый сам за себя.
type DeathmatchModeHandler struct{}

func NewDeathmatchModeHandler() *DeathmatchModeHandler { return &DeathmatchModeHandler{} }

func (h *DeathmatchModeHandler) Mode() Mode { return ModeDeathmatch }

func (h *DeathmatchModeHandler) PlayerJoin(player *Player) {
	logger.Log.Debugf("DM: player %s joined", player.Username())
}

func (h *DeathmatchModeHandler) PlayerLeave(player *Player) {
	logger.Log.Debugf("DM: player %s left", player.Username())
}

func (h *DeathmatchModeHandler) InitModeModel(player *Player) {
	player.Socket.Send(protocol.New(protocol.InitDmModel))
}

func (h *DeathmatchModeHandler) InitPostGui(player *Player) {}

// TeamModeHandler - командный режим со счетом команд.
type TeamModeHandler struct {
	mu     sync.Mutex
	scores map[Team]int
}

func NewTeamModeHandler() *TeamModeHandler {
	return &TeamModeHandler{scores: map[Team]int{TeamRed: 0, TeamBlue: 0}}
}

func (h *TeamModeHandler) Mode() Mode { return ModeTeam }

// TeamScore - текущий счет команды.
func (h *TeamModeHandler) TeamScore(team Team) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scores[team]
}

// AddTeamScore добавляет очки команде.
func (h *TeamModeHandler) AddTeamScore(team Team, delta int) {
	h.mu.Lock()
	h.scores[team] += delta
	h.mu.Unlock()
}

func (h *TeamModeHandler) PlayerJoin(player *Player) {
	logger.Log.Debugf("Team: player %s joined %s", player.Username(), player.Team)
}

func (h *TeamModeHandler) PlayerLeave(player *Player) {
	logger.Log.Debugf("Team: player %s left %s", player.Username(), player.Team)
}

func (h *TeamModeHandler) InitModeModel(player *Player) {
	h.mu.Lock()
	scores := teamScoresData{Red: h.scores[TeamRed], Blue: h.scores[TeamBlue]}
	h.mu.Unlock()

	player.Socket.Send(protocol.New(protocol.InitTeamModel, protocol.ToJson(scores)))
}

func (h *TeamModeHandler) InitPostGui(player *Player) {}

type teamScoresData struct {
	Red  int `json:"redScore"`
	Blue int `json:"blueScore"`
}

// newModeHandler создает обработчик по тегу режима. Дополнение множества
// режимов требует расширить и этот match, и slot-release match в Deactivate.
func newModeHandler(mode Mode) ModeHandler {
	switch mode {
	case ModeDeathmatch:
		return NewDeathmatchModeHandler()
	case ModeTeam:
		return NewTeamModeHandler()
	default:
		return nil
	}
}

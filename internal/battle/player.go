package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// LoadState - этап загрузки игрока в битву. Только вперед, без регрессов.
type LoadState int

const (
	LoadStage1 LoadState = iota
	LoadStage2
	LoadStage2Completed
)

func (s LoadState) String() string {
	switch s {
	case LoadStage1:
		return "stage1"
	case LoadStage2:
		return "stage2"
	case LoadStage2Completed:
		return "stage2_completed"
	default:
		return "unknown"
	}
}

// Player - участие одного соединения в битве: стадийная загрузка, команда,
// счет, опциональный танк и собственная зона конкурентного исполнения.
// Отмена зоны - сигнал к демонтажу; соседних игроков и битву она не трогает.
type Player struct {
	Socket      Socket
	Battle      *Battle
	Team        Team
	IsSpectator bool // неизменен после создания

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// broadcastMu упорядочивает рассылки игрока относительно деактивации:
	// после возврата из Deactivate ни одна рассылка от имени игрока не уйдет.
	broadcastMu sync.RWMutex
	deactivated bool

	mu          sync.Mutex
	tank        *Tank
	loadState   LoadState
	incarnation int
	score       int
	kills       int
	deaths      int

	stage2Once sync.Once
}

func newPlayer(parent context.Context, socket Socket, battle *Battle, team Team, spectator bool) *Player {
	ctx, cancel := context.WithCancel(parent)

	return &Player{
		Socket:      socket,
		Battle:      battle,
		Team:        team,
		IsSpectator: spectator,
		ctx:         ctx,
		cancel:      cancel,
		loadState:   LoadStage1,
	}
}

// User - пользователь соединения. Отсутствие пользователя у игрока битвы -
// нарушение инварианта протокола.
func (p *Player) User() *garage.User {
	user := p.Socket.User()
	if user == nil {
		panic("battle player without user")
	}
	return user
}

func (p *Player) Username() string { return p.User().Username }

// Context - зона исполнения игрока (дочерняя от контекста битвы).
func (p *Player) Context() context.Context { return p.ctx }

// Go запускает отложенную работу в зоне игрока. Deactivate дождется ее
// завершения (явный join, не fire-and-forget).
func (p *Player) Go(fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fn(p.ctx)
	}()
}

func (p *Player) Tank() *Tank {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tank
}

func (p *Player) LoadState() LoadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadState
}

// setLoadState двигает этап загрузки строго вперед.
func (p *Player) setLoadState(state LoadState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if state < p.loadState {
		logger.Log.Warnf("Ignoring load state regress %v -> %v for %s", p.loadState, state, p.Username())
		return
	}
	p.loadState = state
}

func (p *Player) Incarnation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.incarnation
}

func (p *Player) Score() int  { p.mu.Lock(); defer p.mu.Unlock(); return p.score }
func (p *Player) Kills() int  { p.mu.Lock(); defer p.mu.Unlock(); return p.kills }
func (p *Player) Deaths() int { p.mu.Lock(); defer p.mu.Unlock(); return p.deaths }

func (p *Player) AddScore(delta int) { p.mu.Lock(); p.score += delta; p.mu.Unlock() }
func (p *Player) AddKill()           { p.mu.Lock(); p.kills++; p.mu.Unlock() }
func (p *Player) AddDeath()          { p.mu.Lock(); p.deaths++; p.mu.Unlock() }

// Deactivated - начат ли демонтаж игрока.
func (p *Player) Deactivated() bool {
	p.broadcastMu.RLock()
	defer p.broadcastMu.RUnlock()
	return p.deactivated
}

// BroadcastToBattle рассылает команду от имени игрока всей битве.
// После Deactivate рассылки от имени игрока молча отбрасываются.
func (p *Player) BroadcastToBattle(cmd protocol.Command) {
	p.broadcastMu.RLock()
	defer p.broadcastMu.RUnlock()

	if p.deactivated {
		return
	}
	p.Battle.SendTo(cmd)
}

// --- ЗАГРУЗКА ---

// Init - рукопожатие stage 1 -> stage 2: справочник бонусов, модель битвы,
// активные бонусы.
func (p *Player) Init() {
	p.Socket.Send(protocol.New(protocol.InitBonusesData, protocol.ToJson(bonusesData())))

	p.Socket.Send(protocol.New(protocol.InitBattleModel, protocol.ToJson(protocol.InitBattleModelData{
		BattleId:       p.Battle.Id,
		MapName:        p.Battle.Map.Name,
		MapId:          p.Battle.Map.Id,
		Spectator:      p.IsSpectator,
		ReArmorEnabled: true,
		Skybox:         protocol.ToJson(p.Battle.Map.SkyboxResources),
		MapGraphicData: p.Battle.Map.Visual,
	})))

	p.Socket.Send(protocol.New(protocol.InitBonuses, "[]"))

	p.setLoadState(LoadStage2)
}

// InitLocal - персональная инициализация UI по запросу клиента
// (get_init_data_local_tank).
func (p *Player) InitLocal() {
	if !p.IsSpectator {
		p.Socket.Send(protocol.New(protocol.InitSuicideModel, fmt.Sprint(p.Battle.Settings.SuicideRestartTime)))
		p.Socket.Send(protocol.New(protocol.InitStatisticsModel, p.Battle.Title))
	}

	p.Battle.Mode.InitModeModel(p)

	users := make([]protocol.GuiUserData, 0)
	for _, other := range p.Battle.Players() {
		if other.IsSpectator {
			continue
		}
		users = append(users, protocol.GuiUserData{
			Nickname: other.Username(),
			Rank:     other.User().Rank,
			Team:     string(other.Team),
		})
	}

	p.Socket.Send(protocol.New(protocol.InitGuiModel, protocol.ToJson(protocol.InitGuiModelData{
		Name:       p.Battle.Title,
		Fund:       p.Battle.Fund(),
		ScoreLimit: p.Battle.Settings.ScoreLimit,
		TimeLimit:  p.Battle.Settings.TimeLimit,
		CurrTime:   p.Battle.Settings.TimeLimit,
		Team:       p.Team != TeamNone,
		Users:      users,
	})))

	p.Battle.Mode.InitPostGui(p)
}

// TryInitStage2 выполняет тяжелую инициализацию stage 2 не более одного раза,
// сколько бы гейтирующих ping-ов ни пришло (идемпотентный check-and-set).
func (p *Player) TryInitStage2() {
	p.stage2Once.Do(func() {
		logger.Log.WithField("battle", p.Battle.Id).Infof("Init battle for %s...", p.Username())
		p.initStage2()
	})
}

func (p *Player) initStage2() {
	if p.IsSpectator {
		p.Socket.Send(protocol.New(protocol.UpdateSpectatorsList, protocol.ToJson(protocol.UpdateSpectatorsListData{
			Spects: []string{p.Username()},
		})))
	}

	p.Battle.Mode.PlayerJoin(p)

	p.Socket.Send(protocol.New(protocol.InitInventory, protocol.ToJson(inventoryData(p.IsSpectator))))
	p.Socket.Send(protocol.New(protocol.InitMineModel, "{}", "[]"))

	p.InitTanks()

	if !p.IsSpectator {
		p.UpdateStats()
	}

	p.Socket.Send(protocol.New(protocol.InitEffects, "[]"))

	tank := p.Tank()
	if !p.IsSpectator && tank != nil {
		tank.UpdateSpawnPosition()
		tank.PrepareToSpawn()
	}

	p.SpawnOtherTanks()

	p.setLoadState(LoadStage2Completed)
}

// InitTanks доставляет init_tank: чужие танки - себе, свой танк - остальным.
func (p *Player) InitTanks() {
	ownTank := p.Tank()

	for _, other := range p.Battle.Players() {
		if other != p && !other.IsSpectator {
			tank := other.Tank()
			if tank == nil {
				logger.Log.Warnf("Player %s has no tank to init for %s", other.Username(), p.Username())
				continue
			}
			p.Socket.Send(protocol.New(protocol.InitTank, protocol.ToJson(tank.initData())))
		}

		if !p.IsSpectator && other != p && ownTank != nil {
			other.Socket.Send(protocol.New(protocol.InitTank, protocol.ToJson(ownTank.initData())))
		}
	}
}

// SpawnOtherTanks доставляет себе spawn_tank каждого чужого живого танка.
// Зрителям дополнительно активирует уже активные танки.
func (p *Player) SpawnOtherTanks() {
	for _, other := range p.Battle.Players() {
		if other == p || other.IsSpectator {
			continue
		}
		tank := other.Tank()
		if tank == nil {
			continue
		}

		p.Socket.Send(protocol.New(protocol.SpawnTank, protocol.ToJson(tank.spawnData())))

		if p.IsSpectator && tank.State() == TankActive {
			p.Socket.Send(protocol.New(protocol.ActivateTank, tank.Id))
		}
	}
}

// SpawnTankToOthers доставляет spawn_tank собственного танка каждому другому
// игроку битвы. Несет incarnation, актуальный на момент спавна.
func (p *Player) SpawnTankToOthers() {
	if p.IsSpectator {
		return
	}
	tank := p.Tank()
	if tank == nil {
		logger.Log.Errorf("SpawnTankToOthers without tank for %s", p.Username())
		return
	}

	data := protocol.ToJson(tank.spawnData())
	for _, other := range p.Battle.Players() {
		if other == p {
			continue
		}
		other.Socket.Send(protocol.New(protocol.SpawnTank, data))
	}
}

// UpdateStats рассылает строку статистики игрока всей битве.
func (p *Player) UpdateStats() {
	tank := p.Tank()
	if tank == nil {
		logger.Log.Errorf("UpdateStats without tank for %s", p.Username())
		return
	}

	p.BroadcastToBattle(protocol.New(protocol.UpdatePlayerStatistics, protocol.ToJson(protocol.UpdatePlayerStatisticsData{
		Id:     tank.Id,
		Rank:   p.User().Rank,
		Team:   string(p.Team),
		Score:  p.Score(),
		Kills:  p.Kills(),
		Deaths: p.Deaths(),
	})))
}

// --- ТАНК ---

// CreateTank создает новый танк по текущей экипировке игрока.
// Инкарнация строго растет на 1 за вызов; старый танк замещается, не мутирует.
func (p *Player) CreateTank() *Tank {
	user := p.User()

	p.mu.Lock()
	p.incarnation++
	incarnation := p.incarnation
	p.mu.Unlock()

	tank := &Tank{
		Id:          user.Username,
		Player:      p,
		Incarnation: incarnation,
		Hull:        user.Equipment.Hull,
		Coloring:    user.Equipment.Coloring,
		state:       TankRespawn,
		health:      TankMaxHealth,
		position:    protocol.Vector3Data{Z: SpawnHeight},
	}
	tank.Weapon = newWeaponHandler(p, user.Equipment.Weapon)

	p.mu.Lock()
	p.tank = tank
	p.mu.Unlock()

	return tank
}

// Respawn - CreateTank + назначение точки спавна + спавн-рассылка.
func (p *Player) Respawn() *Tank {
	tank := p.CreateTank()
	tank.UpdateSpawnPosition()
	tank.PrepareToSpawn()
	return tank
}

// --- ДЕМОНТАЖ ---

// Deactivate разбирает участие игрока в битве. Идемпотентен и безопасен при
// конкурентном хендлере этого же игрока: ссылка на танк очищается до того,
// как опоздавший хендлер сможет ее разыменовать, а после возврата ни одна
// рассылка от имени игрока не уйдет. Сбой одного шага оповещения не мешает
// остальным.
func (p *Player) Deactivate() {
	p.broadcastMu.Lock()
	if p.deactivated {
		p.broadcastMu.Unlock()
		return
	}
	p.deactivated = true
	p.broadcastMu.Unlock()

	// Отменяем зону игрока и дожидаемся всей порожденной работы.
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	tank := p.tank
	p.tank = nil
	p.mu.Unlock()
	if tank != nil {
		tank.Deactivate()
	}

	p.Battle.Mode.PlayerLeave(p)

	username := p.Username()
	battle := p.Battle

	// 1. Остальной битве - удаление игрока.
	battle.SendTo(protocol.New(protocol.BattlePlayerRemove, username), p)

	// 2. Экрану выбора битв - освобождение слота. Вариант определяется
	// исключительно тегом режима; неизвестный тег - конфигурационный баг.
	var release protocol.Command
	switch battle.Mode.Mode() {
	case ModeDeathmatch:
		release = protocol.New(protocol.ReleaseSlotDm, battle.Id, username)
	case ModeTeam:
		release = protocol.New(protocol.ReleaseSlotTeam, battle.Id, username)
	default:
		panic(fmt.Sprintf("unknown battle mode: %q", battle.Mode.Mode()))
	}
	for _, socket := range battle.battleSelectSockets() {
		socket.Send(release)
	}

	// 3. Экрану выбора битв - уведомление о выходе из битвы.
	notify := protocol.New(protocol.NotifyPlayerLeaveBattle, protocol.ToJson(protocol.NotifyPlayerLeaveBattleData{
		UserId:        username,
		BattleId:      battle.Id,
		MapName:       battle.Title,
		Mode:          string(battle.Mode.Mode()),
		PrivateBattle: false,
		ProBattle:     false,
		MinRank:       1,
		MaxRank:       30,
	}))
	for _, socket := range battle.battleSelectSockets() {
		socket.Send(notify)
	}

	// 4. Тем, у кого эта битва выбрана - полное удаление из состава.
	remove := protocol.New(protocol.RemoveBattlePlayer, battle.Id, username)
	for _, socket := range battle.battleSelectSockets() {
		if socket.SelectedBattle() == battle {
			socket.Send(remove)
		}
	}

	battle.removePlayer(p)
	p.Socket.SetPlayer(nil)

	logger.Log.WithField("battle", battle.Id).Infof("Player %s left battle", username)
}

// battleSelectSockets - активные соединения на экране выбора битв.
func (b *Battle) battleSelectSockets() []Socket {
	if b.directory == nil {
		return nil
	}

	var sockets []Socket
	for _, socket := range b.directory.Sockets() {
		if socket.Screen() == ScreenBattleSelect && socket.Active() {
			sockets = append(sockets, socket)
		}
	}
	return sockets
}

// bonusesData - справочник бонусов карты.
func bonusesData() protocol.InitBonusesDataData {
	return protocol.InitBonusesDataData{
		Bonuses: []protocol.BonusData{
			{Lighting: protocol.BonusLightingData{Color: 6250335}, Id: "nitro", ResourceId: 170010},
			{Lighting: protocol.BonusLightingData{Color: 9348154}, Id: "damage", ResourceId: 170011},
			{Lighting: protocol.BonusLightingData{Color: 7185722}, Id: "armor", ResourceId: 170006},
			{Lighting: protocol.BonusLightingData{Color: 14605789}, Id: "health", ResourceId: 170009},
			{Lighting: protocol.BonusLightingData{Color: 8756459}, Id: "crystall", ResourceId: 170007},
			{Lighting: protocol.BonusLightingData{Color: 15044128}, Id: "gold", ResourceId: 170008},
		},
	}
}

// inventoryData - слоты расходников игрока. Зритель получает пустой инвентарь.
func inventoryData(spectator bool) protocol.InitInventoryData {
	if spectator {
		return protocol.InitInventoryData{Items: []protocol.InventoryItemData{}}
	}

	return protocol.InitInventoryData{
		Items: []protocol.InventoryItemData{
			{Id: "health", Count: 1000, SlotId: 1, ItemEffectTime: 20, ItemRestSec: 20},
			{Id: "armor", Count: 1000, SlotId: 2, ItemEffectTime: 55, ItemRestSec: 20},
			{Id: "double_damage", Count: 1000, SlotId: 3, ItemEffectTime: 55, ItemRestSec: 20},
			{Id: "n2o", Count: 1000, SlotId: 4, ItemEffectTime: 55, ItemRestSec: 20},
			{Id: "mine", Count: 1000, SlotId: 5, ItemEffectTime: 20, ItemRestSec: 20},
		},
	}
}

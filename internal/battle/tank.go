package battle

import (
	"sync"

	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// TankState - состояние боевой машины.
type TankState int

const (
	// TankRespawn - только что создан, еще не управляем.
	TankRespawn TankState = iota
	// TankSemiActive - заспавнен, управляем, но еще неуязвимого цвета.
	TankSemiActive
	// TankActive - полностью в бою.
	TankActive
	// TankDead - уничтожен, ждет респавна.
	TankDead
)

func (s TankState) String() string {
	switch s {
	case TankRespawn:
		return "respawn"
	case TankSemiActive:
		return "semi_active"
	case TankActive:
		return "active"
	case TankDead:
		return "dead"
	default:
		return "unknown"
	}
}

// InitKey - ключ состояния для init_tank.
func (s TankState) InitKey() string { return s.String() }

const (
	// SpawnHeight - фиксированная высота создания танка до назначения
	// точки спавна.
	SpawnHeight = 1000.0

	// TankMaxHealth - полное здоровье танка.
	TankMaxHealth = 1000.0
)

// LenientMovePolicy - именованная политика: движение в недопустимом состоянии
// танка логируется как аномалия протокола, но все равно применяется и
// ретранслируется. Это сознательная терпимость к гонкам клиент/сервер вокруг
// спавна, а не недосмотр; отклонение рассинхронизировало бы клиентов.
const LenientMovePolicy = true

// Tank - боевая машина игрока. На игрока приходится не более одного живого
// танка; респавн всегда создает новый объект, а не мутирует старый.
type Tank struct {
	Id          string
	Player      *Player
	Incarnation int

	Hull     *garage.HullItem
	Weapon   WeaponHandler
	Coloring *garage.ColoringItem

	// mu защищает state и health: их трогает и владелец, и процессор урона.
	// Позиция/ориентация мутируются только хендлерами соединения-владельца
	// (порядок в пределах соединения гарантирован), но читаются из спавн-
	// рассылок, поэтому тоже под mu.
	mu          sync.Mutex
	state       TankState
	health      float64
	position    protocol.Vector3Data
	orientation protocol.Vector3Data
}

func (t *Tank) State() TankState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tank) setState(state TankState) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Tank) Health() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.health
}

// Drivable - допускает ли текущее состояние команды движения и башни.
func (t *Tank) Drivable() bool {
	state := t.State()
	return state == TankSemiActive || state == TankActive
}

// Position возвращает снапшот позиции.
func (t *Tank) Position() protocol.Vector3Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Orientation возвращает снапшот ориентации (углы Эйлера, как на проводе).
func (t *Tank) Orientation() protocol.Vector3Data {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orientation
}

// ApplyMove копирует кинематику, заявленную клиентом, в авторитетное
// состояние. Сервер доверяет клиентской физике (non-goal спецификации).
func (t *Tank) ApplyMove(position, orientation protocol.Vector3Data) {
	t.mu.Lock()
	t.position = position
	t.orientation = orientation
	t.mu.Unlock()
}

// UpdateSpawnPosition назначает точку спавна с карты.
// Без точек спавна танк остается на высоте создания.
func (t *Tank) UpdateSpawnPosition() {
	points := t.Player.Battle.Map.SpawnPoints
	if len(points) == 0 {
		return
	}

	point := points[(t.Incarnation-1)%len(points)]
	t.mu.Lock()
	t.position = protocol.Vector3Data{X: point.X, Y: point.Y, Z: point.Z}
	t.orientation = protocol.Vector3Data{Z: point.Rotation}
	t.mu.Unlock()
}

// PrepareToSpawn переводит танк в управляемое состояние и рассылает спавн
// остальным игрокам битвы.
func (t *Tank) PrepareToSpawn() {
	t.setState(TankSemiActive)
	t.Player.SpawnTankToOthers()
}

// Activate переводит танк в бой и сообщает об этом битве.
func (t *Tank) Activate() {
	t.setState(TankActive)
	t.Player.Battle.SendTo(protocol.New(protocol.ActivateTank, t.Id))

	logger.Log.WithField("tank", t.Id).Debug("Tank activated")
}

// Deactivate помечает танк уничтоженным. Эффекты разрушения - зона
// ответственности процессора урона и режима.
func (t *Tank) Deactivate() {
	t.setState(TankDead)
}

// spawnData собирает полезную нагрузку spawn_tank.
// Всегда несет incarnation, актуальный на момент спавна.
func (t *Tank) spawnData() protocol.SpawnTankData {
	t.mu.Lock()
	position := t.position
	orientation := t.orientation
	health := t.health
	t.mu.Unlock()

	physics := t.Hull.Physics
	turret := t.weaponItem().Physics

	return protocol.SpawnTankData{
		TankId:      t.Id,
		Health:      health,
		Incarnation: t.Incarnation,
		Team:        string(t.Player.Team),

		X:   position.X,
		Y:   position.Y,
		Z:   position.Z,
		Rot: orientation.Z,

		Speed:                   physics.Speed,
		TurnSpeed:               physics.TurnSpeed,
		Acceleration:            physics.Acceleration,
		ReverseAcceleration:     physics.ReverseAcceleration,
		SideAcceleration:        physics.SideAcceleration,
		TurnAcceleration:        physics.TurnAcceleration,
		ReverseTurnAcceleration: physics.ReverseTurnAcceleration,

		TurretRotationSpeed:    turret.TurretRotationSpeed,
		TurretTurnAcceleration: turret.TurretTurnAcceleration,
	}
}

// initData собирает полезную нагрузку init_tank.
func (t *Tank) initData() protocol.InitTankData {
	t.mu.Lock()
	state := t.state
	health := t.health
	t.mu.Unlock()

	item := t.weaponItem()
	physics := t.Hull.Physics
	turret := item.Physics

	return protocol.InitTankData{
		BattleId:       t.Player.Battle.Id,
		HullId:         t.Hull.MountName,
		TurretId:       item.MountName,
		ColormapId:     t.Coloring.Coloring,
		HullResource:   t.Hull.Object3DS,
		TurretResource: item.Object3DS,
		TankId:         t.Id,
		Nickname:       t.Player.Username(),
		Team:           string(t.Player.Team),
		State:          state.InitKey(),
		Health:         health,

		MaxSpeed:                physics.Speed,
		MaxTurnSpeed:            physics.TurnSpeed,
		Acceleration:            physics.Acceleration,
		ReverseAcceleration:     physics.ReverseAcceleration,
		SideAcceleration:        physics.SideAcceleration,
		TurnAcceleration:        physics.TurnAcceleration,
		ReverseTurnAcceleration: physics.ReverseTurnAcceleration,
		DampingCoeff:            physics.Damping,
		Mass:                    physics.Mass,
		Power:                   physics.Power,

		TurretTurnSpeed:        turret.TurretRotationSpeed,
		TurretTurnAcceleration: turret.TurretTurnAcceleration,
		Kickback:               turret.Kickback,
		ImpactForce:            turret.ImpactForce,
	}
}

func (t *Tank) weaponItem() *garage.WeaponItem {
	return t.Weapon.Item()
}

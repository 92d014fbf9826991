package battle

import (
	"fmt"

	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// registerHandlers ставит хендлеры всех входящих команд ядра.
func (d *Dispatcher) registerHandlers() {
	d.Register(protocol.Ping, handlePing)
	d.Register(protocol.JoinBattle, WithData(handleJoinBattle))
	d.Register(protocol.GetInitDataLocalTank, WithEmpty(handleGetInitDataLocalTank))

	d.Register(protocol.ReadyToSpawn, WithEmpty(handleReadyToSpawn))
	d.Register(protocol.ActivateTank, WithEmpty(handleActivateTank))

	d.Register(protocol.Move, WithData(handleMove))
	d.Register(protocol.FullMove, WithData(handleFullMove))
	d.Register(protocol.RotateTurret, WithData(handleRotateTurret))
	d.Register(protocol.MovementControl, WithData(handleMovementControl))
	d.Register(protocol.SelfDestruct, WithEmpty(handleSelfDestruct))

	d.Register(protocol.Fire, WithData(handleFire))
	d.Register(protocol.FireStatic, WithData(handleFireStatic))
	d.Register(protocol.FireTarget, WithData(handleFireTarget))
}

// handlePing - клиентский keep-alive в битве. Первый ping игрока триггерит
// тяжелую инициализацию stage 2 (идемпотентно). Ping вне битвы молча
// игнорируется, pong не уходит.
func handlePing(ctx *Context, _ []string) error {
	player := ctx.Socket.Player()
	if player == nil {
		return nil
	}

	player.TryInitStage2()

	ctx.Socket.Send(protocol.New(protocol.Pong))
	return nil
}

// handleJoinBattle ставит соединение в битву: слот игрока, танк по
// экипировке, рукопожатие stage 1.
func handleJoinBattle(ctx *Context, data protocol.JoinBattleData) error {
	b, err := ctx.Battles.Battle(data.BattleId)
	if err != nil {
		return err
	}

	team := TeamNone
	switch data.Team {
	case "", string(TeamNone):
	case string(TeamRed):
		team = TeamRed
	case string(TeamBlue):
		team = TeamBlue
	default:
		return fmt.Errorf("unknown team: %q", data.Team)
	}

	player, err := b.AddPlayer(ctx.Socket, team, data.Spectator)
	if err != nil {
		return err
	}

	if !player.IsSpectator {
		player.CreateTank()
	}

	player.Init()
	return nil
}

func handleGetInitDataLocalTank(ctx *Context) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}

	player.InitLocal()
	return nil
}

// handleReadyToSpawn - запрос клиента на (ре)спавн после смерти: новый танк,
// точка спавна, спавн-рассылка.
func handleReadyToSpawn(ctx *Context) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}
	if player.IsSpectator {
		return fmt.Errorf("spectator %s cannot spawn", player.Username())
	}

	player.Respawn()
	return nil
}

// handleActivateTank - подтверждение клиента, что спавн отыгран локально:
// танк переходит в бой, битва получает activate_tank с его id.
func handleActivateTank(ctx *Context) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}
	tank := player.Tank()
	if tank == nil {
		return ErrNoTank
	}

	tank.Activate()
	return nil
}

func handleMove(ctx *Context, data protocol.MoveData) error {
	return moveInternal(ctx, data, nil)
}

func handleFullMove(ctx *Context, data protocol.FullMoveData) error {
	return moveInternal(ctx, data.MoveData, &data)
}

// moveInternal применяет заявленную клиентом кинематику и ретранслирует ее
// всей битве единым авторитетным путем: отправитель тоже получает свое эхо.
func moveInternal(ctx *Context, data protocol.MoveData, full *protocol.FullMoveData) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}
	tank := player.Tank()
	if tank == nil {
		return ErrNoTank
	}

	// LenientMovePolicy: аномалия логируется, движение все равно применяется.
	if LenientMovePolicy && !tank.Drivable() {
		logger.Log.Warnf("Invalid tank state for movement: %s", tank.State())
	}

	tank.ApplyMove(data.Position, data.Orientation)

	if full != nil {
		player.BroadcastToBattle(protocol.New(protocol.ClientFullMove, protocol.ToJson(protocol.ClientFullMoveData{
			TankId:       tank.Id,
			FullMoveData: *full,
		})))
	} else {
		player.BroadcastToBattle(protocol.New(protocol.ClientMove, protocol.ToJson(protocol.ClientMoveData{
			TankId:   tank.Id,
			MoveData: data,
		})))
	}

	logger.Log.Debugf("Synced move to %d players", len(player.Battle.Players()))
	return nil
}

func handleRotateTurret(ctx *Context, data protocol.RotateTurretData) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}
	tank := player.Tank()
	if tank == nil {
		return ErrNoTank
	}

	if LenientMovePolicy && !tank.Drivable() {
		logger.Log.Warnf("Invalid tank state for rotate turret: %s", tank.State())
	}

	player.BroadcastToBattle(protocol.New(protocol.ClientRotateTurret, protocol.ToJson(protocol.ClientRotateTurretData{
		TankId:           tank.Id,
		RotateTurretData: data,
	})))
	return nil
}

func handleMovementControl(ctx *Context, data protocol.MovementControlData) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}
	tank := player.Tank()
	if tank == nil {
		return ErrNoTank
	}

	if LenientMovePolicy && !tank.Drivable() {
		logger.Log.Warnf("Invalid tank state for movement control: %s", tank.State())
	}

	player.BroadcastToBattle(protocol.New(protocol.ClientMovementControl, protocol.ToJson(protocol.ClientMovementControlData{
		TankId:              tank.Id,
		MovementControlData: data,
	})))
	return nil
}

// handleSelfDestruct - хук-заглушка на этом слое: эффект разрушения
// применяет слой урона/режима.
func handleSelfDestruct(ctx *Context) error {
	player := ctx.Socket.Player()
	if player == nil {
		return ErrNoBattlePlayer
	}

	logger.Log.Debugf("Started self-destruct for %s", player.Username())
	return nil
}

func handleFire(ctx *Context, data protocol.FireData) error {
	weapon, err := shooterWeapon(ctx)
	if err != nil {
		return err
	}
	return weapon.Fire(data)
}

func handleFireStatic(ctx *Context, data protocol.FireStaticData) error {
	weapon, err := shooterWeapon(ctx)
	if err != nil {
		return err
	}
	return weapon.FireStatic(data)
}

func handleFireTarget(ctx *Context, data protocol.FireTargetData) error {
	weapon, err := shooterWeapon(ctx)
	if err != nil {
		return err
	}
	return weapon.FireTarget(data)
}

func shooterWeapon(ctx *Context) (WeaponHandler, error) {
	player := ctx.Socket.Player()
	if player == nil {
		return nil, ErrNoBattlePlayer
	}
	tank := player.Tank()
	if tank == nil {
		return nil, ErrNoTank
	}
	return tank.Weapon, nil
}

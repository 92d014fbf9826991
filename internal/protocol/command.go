package protocol

import (
	"encoding/json"
	"fmt"
)

// CommandName - закрытое множество идентификаторов команд.
// Значение - имя команды на проводе.
type CommandName string

const (
	// Служебные
	Login CommandName = "login"
	Ping  CommandName = "ping"
	Pong  CommandName = "pong"

	// Лобби / вход в битву
	JoinBattle              CommandName = "join_battle"
	GetInitDataLocalTank    CommandName = "get_init_data_local_tank"
	NotifyPlayerLeaveBattle CommandName = "notify_player_leave_battle"
	RemoveBattlePlayer      CommandName = "remove_battle_player"
	ReleaseSlotDm           CommandName = "release_slot_dm"
	ReleaseSlotTeam         CommandName = "release_slot_team"

	// Инициализация битвы (stage 1/2)
	InitBonusesData      CommandName = "init_bonuses_data"
	InitBattleModel      CommandName = "init_battle_model"
	InitBonuses          CommandName = "init_bonuses"
	InitGuiModel         CommandName = "init_gui_model"
	InitDmModel          CommandName = "init_dm_model"
	InitTeamModel        CommandName = "init_team_model"
	InitInventory        CommandName = "init_inventory"
	InitMineModel        CommandName = "init_mine_model"
	InitTank             CommandName = "init_tank"
	InitEffects          CommandName = "init_effects"
	InitSuicideModel     CommandName = "init_suicide_model"
	InitStatisticsModel  CommandName = "init_statistics_model"
	UpdateSpectatorsList CommandName = "update_spectators_list"

	// Танки
	SpawnTank    CommandName = "spawn_tank"
	ReadyToSpawn CommandName = "ready_to_spawn"
	// ActivateTank двунаправленная: от клиента - подтверждение отыгранного
	// спавна (без аргументов), от сервера - активация танка для битвы (id).
	ActivateTank CommandName = "activate_tank"

	// Движение
	Move                  CommandName = "move"
	FullMove              CommandName = "full_move"
	ClientMove            CommandName = "client_move"
	ClientFullMove        CommandName = "client_full_move"
	RotateTurret          CommandName = "rotate_turret"
	ClientRotateTurret    CommandName = "client_rotate_turret"
	MovementControl       CommandName = "movement_control"
	ClientMovementControl CommandName = "client_movement_control"
	SelfDestruct          CommandName = "self_destruct"

	// Оружие
	Fire       CommandName = "fire"
	FireStatic CommandName = "fire_static"
	FireTarget CommandName = "fire_target"
	Shot       CommandName = "shot"
	ShotStatic CommandName = "shot_static"
	ShotTarget CommandName = "shot_target"

	// Статистика
	UpdatePlayerStatistics CommandName = "update_player_statistics"
	BattlePlayerRemove     CommandName = "battle_player_remove"
)

// Command - единица протокола: имя команды + упорядоченный список аргументов.
// Каждый аргумент сериализуется независимо (структуры - как JSON-текст).
// Неизменяема после создания.
type Command struct {
	Name CommandName `json:"name"`
	Args []string    `json:"args"`
}

// New собирает команду.
func New(name CommandName, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Pack кодирует команду в один исходящий фрейм.
// Фреймингом (длины, кодировка) занимается транспорт.
func Pack(cmd Command) ([]byte, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("pack command %q: %w", cmd.Name, err)
	}
	return data, nil
}

// Unpack декодирует один входящий фрейм в команду.
func Unpack(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("unpack command: %w", err)
	}
	if cmd.Name == "" {
		return Command{}, fmt.Errorf("unpack command: empty name")
	}
	return cmd, nil
}

// ToJson сериализует структурированный аргумент команды.
// Ошибка маршалинга статической структуры - это баг программиста, поэтому panic.
func ToJson(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("protocol: marshal %T: %v", v, err))
	}
	return string(data)
}

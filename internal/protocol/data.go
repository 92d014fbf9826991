package protocol

import "fmt"

// --- ОБЩИЕ ---

// Vector3Data - точка или направление в мире, как его репортит клиент.
type Vector3Data struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// LoginData - первый фрейм соединения. Аутентификация как таковая - внешний
// коллаборатор; здесь достаточно имени пользователя.
type LoginData struct {
	Username string `json:"username"`
}

func (d LoginData) Validate() error {
	if d.Username == "" {
		return fmt.Errorf("empty username")
	}
	return nil
}

// JoinBattleData - запрос на вход в битву.
type JoinBattleData struct {
	BattleId  string `json:"battleId"`
	Team      string `json:"team"`
	Spectator bool   `json:"spectator"`
}

func (d JoinBattleData) Validate() error {
	if d.BattleId == "" {
		return fmt.Errorf("empty battleId")
	}
	return nil
}

// MoveData - частичное обновление кинематики (позиция + ориентация).
type MoveData struct {
	PhysTime    int         `json:"physTime"`
	Position    Vector3Data `json:"position"`
	Orientation Vector3Data `json:"orientation"`
}

// FullMoveData дополнительно несет скорости и направление башни.
type FullMoveData struct {
	MoveData
	LinearVelocity  Vector3Data `json:"linearVelocity"`
	AngularVelocity Vector3Data `json:"angularVelocity"`
	TurretDirection float64     `json:"turretDirection"`
}

// RotateTurretData - поворот башни.
type RotateTurretData struct {
	PhysTime int     `json:"physTime"`
	Angle    float64 `json:"angle"`
	Control  int     `json:"control"`
}

// MovementControlData - намерение газ/тормоз/поворот.
type MovementControlData struct {
	PhysTime    int     `json:"physTime"`
	Control     int     `json:"control"`
	TurnSpeed   float64 `json:"turnSpeed"`
	TurretSpeed float64 `json:"turretSpeed"`
}

// FireData - выстрел "в направлении" (без конкретной цели).
type FireData struct {
	PhysTime      int         `json:"physTime"`
	ShotPosition  Vector3Data `json:"shotPosition"`
	ShotDirection Vector3Data `json:"shotDirection"`
}

// FireStaticData - попадание в статическую геометрию.
type FireStaticData struct {
	PhysTime int         `json:"physTime"`
	HitPoint Vector3Data `json:"hitPoint"`
}

// FireTargetData - выстрел по именованной цели.
type FireTargetData struct {
	PhysTime    int         `json:"physTime"`
	Target      string      `json:"target"`
	Incarnation int         `json:"incarnation"`
	HitPoint    Vector3Data `json:"hitPoint"`
}

func (d FireTargetData) Validate() error {
	if d.Target == "" {
		return fmt.Errorf("empty target")
	}
	return nil
}

// --- СЕРВЕР -> КЛИЕНТ ---

// ClientMoveData - эхо движения с id танка для всей битвы.
type ClientMoveData struct {
	TankId string `json:"tankId"`
	MoveData
}

// ClientFullMoveData - эхо полного движения.
type ClientFullMoveData struct {
	TankId string `json:"tankId"`
	FullMoveData
}

// ClientRotateTurretData - эхо поворота башни.
type ClientRotateTurretData struct {
	TankId string `json:"tankId"`
	RotateTurretData
}

// ClientMovementControlData - эхо управления движением.
type ClientMovementControlData struct {
	TankId string `json:"tankId"`
	MovementControlData
}

// SpawnTankData несет incarnation владельца: наблюдатели отбрасывают
// устаревшие спавны танка, который они уже видели в более новой инкарнации.
type SpawnTankData struct {
	TankId      string  `json:"tank_id"`
	Health      float64 `json:"health"`
	Incarnation int     `json:"incration_id"`
	Team        string  `json:"team_type"`

	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Rot float64 `json:"rot"`

	// Физика корпуса
	Speed                   float64 `json:"speed"`
	TurnSpeed               float64 `json:"turn_speed"`
	Acceleration            float64 `json:"acceleration"`
	ReverseAcceleration     float64 `json:"reverseAcceleration"`
	SideAcceleration        float64 `json:"sideAcceleration"`
	TurnAcceleration        float64 `json:"turnAcceleration"`
	ReverseTurnAcceleration float64 `json:"reverseTurnAcceleration"`

	// Физика башни
	TurretRotationSpeed    float64 `json:"turret_rotation_speed"`
	TurretTurnAcceleration float64 `json:"turretTurnAcceleration"`
}

// InitTankData - полное описание чужого танка при входе в битву.
type InitTankData struct {
	BattleId       string  `json:"battleId"`
	HullId         string  `json:"hull_id"`
	TurretId       string  `json:"turret_id"`
	ColormapId     int     `json:"colormap_id"`
	HullResource   int     `json:"hullResource"`
	TurretResource int     `json:"turretResource"`
	TankId         string  `json:"tank_id"`
	Nickname       string  `json:"nickname"`
	Team           string  `json:"team_type"`
	State          string  `json:"state"`
	Health         float64 `json:"health"`

	// Физика корпуса
	MaxSpeed                float64 `json:"maxSpeed"`
	MaxTurnSpeed            float64 `json:"maxTurnSpeed"`
	Acceleration            float64 `json:"acceleration"`
	ReverseAcceleration     float64 `json:"reverseAcceleration"`
	SideAcceleration        float64 `json:"sideAcceleration"`
	TurnAcceleration        float64 `json:"turnAcceleration"`
	ReverseTurnAcceleration float64 `json:"reverseTurnAcceleration"`
	DampingCoeff            float64 `json:"dampingCoeff"`
	Mass                    float64 `json:"mass"`
	Power                   float64 `json:"power"`

	// Физика башни
	TurretTurnSpeed        float64 `json:"turret_turn_speed"`
	TurretTurnAcceleration float64 `json:"turretTurnAcceleration"`
	Kickback               float64 `json:"kickback"`
	ImpactForce            float64 `json:"impact_force"`
}

// InitBattleModelData - модель битвы, отправляется на stage 1.
type InitBattleModelData struct {
	BattleId       string `json:"battleId"`
	MapName        string `json:"map_id"`
	MapId          int    `json:"mapId"`
	Spectator      bool   `json:"spectator"`
	ReArmorEnabled bool   `json:"reArmorEnabled"`
	Skybox         string `json:"skybox"`
	MapGraphicData string `json:"map_graphic_data"`
}

// BonusLightingData - подсветка бонуса.
type BonusLightingData struct {
	Color int `json:"color"`
}

// BonusData - один тип бонуса на карте.
type BonusData struct {
	Lighting   BonusLightingData `json:"lighting"`
	Id         string            `json:"id"`
	ResourceId int               `json:"resourceId"`
}

// InitBonusesDataData - справочник бонусов.
type InitBonusesDataData struct {
	Bonuses []BonusData `json:"bonuses"`
}

// GuiUserData - строка таблицы игроков в GUI.
type GuiUserData struct {
	Nickname string `json:"nickname"`
	Rank     int    `json:"rank"`
	Team     string `json:"teamType"`
}

// InitGuiModelData - персональная инициализация GUI битвы.
type InitGuiModelData struct {
	Name       string        `json:"name"`
	Fund       int           `json:"fund"`
	ScoreLimit int           `json:"scoreLimit"`
	TimeLimit  int           `json:"timeLimit"`
	CurrTime   int           `json:"currTime"`
	Team       bool          `json:"team"`
	Users      []GuiUserData `json:"users"`
}

// InventoryItemData - один слот расходников.
type InventoryItemData struct {
	Id             string `json:"id"`
	Count          int    `json:"count"`
	SlotId         int    `json:"slotId"`
	ItemEffectTime int    `json:"itemEffectTime"`
	ItemRestSec    int    `json:"itemRestSec"`
}

// InitInventoryData - инвентарь игрока.
type InitInventoryData struct {
	Items []InventoryItemData `json:"items"`
}

// UpdateSpectatorsListData - список зрителей.
type UpdateSpectatorsListData struct {
	Spects []string `json:"spects"`
}

// UpdatePlayerStatisticsData - строка статистики игрока.
type UpdatePlayerStatisticsData struct {
	Id     string `json:"id"`
	Rank   int    `json:"rank"`
	Team   string `json:"team_type"`
	Score  int    `json:"score"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}

// NotifyPlayerLeaveBattleData - уведомление для экрана выбора битв.
type NotifyPlayerLeaveBattleData struct {
	UserId        string `json:"userId"`
	BattleId      string `json:"battleId"`
	MapName       string `json:"mapName"`
	Mode          string `json:"mode"`
	PrivateBattle bool   `json:"privateBattle"`
	ProBattle     bool   `json:"proBattle"`
	MinRank       int    `json:"minRank"`
	MaxRank       int    `json:"maxRank"`
}

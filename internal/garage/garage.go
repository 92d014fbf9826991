package garage

import "sync"

// HullPhysics - ходовые характеристики корпуса.
type HullPhysics struct {
	Speed                   float64
	TurnSpeed               float64
	Acceleration            float64
	ReverseAcceleration     float64
	SideAcceleration        float64
	TurnAcceleration        float64
	ReverseTurnAcceleration float64
	Damping                 float64
	Mass                    float64
	Power                   float64
}

// WeaponPhysics - характеристики башни.
type WeaponPhysics struct {
	TurretRotationSpeed    float64
	TurretTurnAcceleration float64
	Kickback               float64
	ImpactForce            float64
}

// HullItem - экипированный корпус.
type HullItem struct {
	MountName string // например "hunter_m0"
	Object3DS int
	Physics   HullPhysics
}

// WeaponItem - экипированное оружие.
// Archetype определяет выбор обработчика оружия при создании танка.
type WeaponItem struct {
	Archetype string // "railgun", "thunder", ...
	MountName string // например "railgun_m0"
	Object3DS int
	Physics   WeaponPhysics
	Visual    string // sfx-данные (JSON как есть)
}

// ColoringItem - краска.
type ColoringItem struct {
	Coloring int
}

// Equipment - текущий комплект пользователя.
type Equipment struct {
	Hull     *HullItem
	Weapon   *WeaponItem
	Coloring *ColoringItem
}

// User - пользователь с точки зрения ядра: имя, ранг, экипировка.
// Аккаунты и гараж как таковые - внешние коллабораторы, здесь только
// read-only контракт.
type User struct {
	Username  string
	Rank      int
	Equipment Equipment
}

// Store выдает пользователей с их экипировкой.
type Store struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewStore() *Store {
	return &Store{users: make(map[string]*User)}
}

// User возвращает пользователя по имени, создавая его с дефолтной
// экипировкой при первом обращении.
func (s *Store) User(username string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[username]; ok {
		return u
	}

	u := &User{
		Username:  username,
		Rank:      1,
		Equipment: DefaultEquipment(),
	}
	s.users[username] = u
	return u
}

// DefaultEquipment - стартовый комплект (hunter + railgun + зеленая краска).
func DefaultEquipment() Equipment {
	return Equipment{
		Hull: &HullItem{
			MountName: "hunter_m0",
			Object3DS: 227169,
			Physics: HullPhysics{
				Speed:                   8.6,
				TurnSpeed:               1.33,
				Acceleration:            9.4,
				ReverseAcceleration:     13.26,
				SideAcceleration:        15.6,
				TurnAcceleration:        2.68,
				ReverseTurnAcceleration: 5.4,
				Damping:                 900,
				Mass:                    1376,
				Power:                   9.4,
			},
		},
		Weapon: &WeaponItem{
			Archetype: "railgun",
			MountName: "railgun_m0",
			Object3DS: 906685,
			Physics: WeaponPhysics{
				TurretRotationSpeed:    1.2473867,
				TurretTurnAcceleration: 1.214225,
				Kickback:               2.4475,
				ImpactForce:            3.7,
			},
			Visual: `{"chargingPart1":114424,"chargingPart2":468379,"chargingPart3":932241,"shotSound":900596,"trail":550305}`,
		},
		Coloring: &ColoringItem{Coloring: 966681},
	}
}

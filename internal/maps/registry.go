package maps

import (
	"fmt"
	"sync"
)

// SpawnPoint - точка появления танка на карте.
type SpawnPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
	Team     string  `json:"team"`
}

// Map - статическое описание карты: ресурсы скайбокса, визуальные данные,
// точки спавна. Только чтение.
type Map struct {
	Id     int
	Name   string
	Skybox string

	// SkyboxResources - маппинг сторона -> id ресурса, уже разрешенный реестром.
	SkyboxResources map[string]int

	// Visual - статические графические данные карты (JSON как есть).
	Visual string

	SpawnPoints []SpawnPoint
}

// Registry - реестр карт. Читается один раз при инициализации игрока битвы.
type Registry struct {
	mu   sync.RWMutex
	maps map[string]*Map
}

// NewRegistry создает реестр со встроенным набором карт.
// В полном сервере карты загружаются из ассетов; ядру синхронизации
// достаточно статической таблицы.
func NewRegistry() *Registry {
	r := &Registry{maps: make(map[string]*Map)}

	r.register(&Map{
		Id:     663288,
		Name:   "sandbox",
		Skybox: "skybox_summer",
		SkyboxResources: map[string]int{
			"top":    121690,
			"bottom": 121691,
			"front":  121692,
			"back":   121693,
			"left":   121694,
			"right":  121695,
		},
		Visual: `{"angleX":-1.2,"angleZ":2.2,"lightColor":13090219,"shadowColor":5530735,"fogAlpha":0.35,"fogColor":10543615}`,
	})

	r.register(&Map{
		Id:     650624,
		Name:   "island",
		Skybox: "skybox_tropics",
		SkyboxResources: map[string]int{
			"top":    122010,
			"bottom": 122011,
			"front":  122012,
			"back":   122013,
			"left":   122014,
			"right":  122015,
		},
		Visual: `{"angleX":-0.9,"angleZ":1.8,"lightColor":14540253,"shadowColor":4408131,"fogAlpha":0.25,"fogColor":11193599}`,
		SpawnPoints: []SpawnPoint{
			{X: 1200, Y: -400, Z: 80},
			{X: -900, Y: 650, Z: 80},
			{X: 300, Y: 1500, Z: 120},
		},
	})

	return r
}

func (r *Registry) register(m *Map) {
	r.maps[m.Name] = m
}

// Map возвращает карту по имени.
func (r *Registry) Map(name string) (*Map, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[name]
	if !ok {
		return nil, fmt.Errorf("unknown map: %q", name)
	}
	return m, nil
}

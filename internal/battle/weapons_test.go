package battle

import (
	"context"
	"errors"
	"testing"

	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
)

func TestWeaponHandlerSelection(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})
	player := joinPlayer(t, b, newFakeSocket("alpha"))

	tests := []struct {
		archetype string
		kind      WeaponKind
	}{
		{"railgun", WeaponRailgun},
		{"thunder", WeaponThunder},
		{"isida", WeaponIsida},
		{"smoky", WeaponSmoky},
		{"twins", WeaponTwins},
		{"flamethrower", WeaponFlamethrower},
		{"freeze", WeaponFreeze},
		{"ricochet", WeaponRicochet},
		{"shaft", WeaponShaft},
		{"null", WeaponNull},
		{"plasma_cannon", WeaponNull}, // нераспознанный архетип
		{"", WeaponNull},
	}

	for _, tt := range tests {
		handler := newWeaponHandler(player, &garage.WeaponItem{Archetype: tt.archetype})
		if handler.Kind() != tt.kind {
			t.Errorf("Archetype %q: expected %s handler, got %s", tt.archetype, tt.kind, handler.Kind())
		}
	}
}

func TestFireBroadcastsShot(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	joinPlayer(t, b, sockB)
	sockA.reset()
	sockB.reset()

	err := playerA.Tank().Weapon.Fire(protocol.FireData{PhysTime: 10})
	if err != nil {
		t.Fatalf("Fire: %v", err)
	}

	// Эффект выстрела получают все, включая стрелявшего
	for _, sock := range []*fakeSocket{sockA, sockB} {
		shots := sock.commands(protocol.Shot)
		if len(shots) != 1 {
			t.Fatalf("%s: expected 1 shot, got %d", sock.User().Username, len(shots))
		}
		if shots[0].Args[0] != "alpha" {
			t.Errorf("Expected shooter alpha, got %q", shots[0].Args[0])
		}
	}
}

func TestFireStaticBroadcastsShotStatic(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	joinPlayer(t, b, sockB)
	sockB.reset()

	err := playerA.Tank().Weapon.FireStatic(protocol.FireStaticData{PhysTime: 10})
	if err != nil {
		t.Fatalf("FireStatic: %v", err)
	}

	if got := len(sockB.commands(protocol.ShotStatic)); got != 1 {
		t.Errorf("Expected 1 shot_static, got %d", got)
	}
}

func TestFireTargetDamagesActiveTarget(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	playerB := joinPlayer(t, b, sockB)
	playerB.Tank().setState(TankActive)
	sockB.reset()

	// Дефолтная экипировка - рельса, 85 урона
	err := playerA.Tank().Weapon.FireTarget(protocol.FireTargetData{Target: "bravo"})
	if err != nil {
		t.Fatalf("FireTarget: %v", err)
	}

	if health := playerB.Tank().Health(); health != TankMaxHealth-85 {
		t.Errorf("Expected health %.0f, got %.0f", TankMaxHealth-85, health)
	}

	shots := sockB.commands(protocol.ShotTarget)
	if len(shots) != 1 {
		t.Fatalf("Expected 1 shot_target, got %d", len(shots))
	}
	if shots[0].Args[0] != "alpha" {
		t.Errorf("Expected shooter alpha, got %q", shots[0].Args[0])
	}
}

// Цель не в бою - выстрел молча игнорируется (тай-брейк гонки смерти/спавна).
func TestFireTargetIgnoresInactiveTarget(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	playerB := joinPlayer(t, b, sockB)
	sockB.reset()

	// Танк цели только создан (respawn)
	err := playerA.Tank().Weapon.FireTarget(protocol.FireTargetData{Target: "bravo"})
	if err != nil {
		t.Fatalf("FireTarget at respawn target: %v", err)
	}

	if health := playerB.Tank().Health(); health != TankMaxHealth {
		t.Errorf("Inactive target took damage: %.0f", health)
	}
	if got := len(sockB.commands(protocol.ShotTarget)); got != 0 {
		t.Errorf("Expected no shot_target, got %d", got)
	}

	// То же для уже мертвого танка
	playerB.Tank().setState(TankDead)
	if err := playerA.Tank().Weapon.FireTarget(protocol.FireTargetData{Target: "bravo"}); err != nil {
		t.Fatalf("FireTarget at dead target: %v", err)
	}
	if got := len(sockB.commands(protocol.ShotTarget)); got != 0 {
		t.Errorf("Expected no shot_target at dead target, got %d", got)
	}
}

func TestFireTargetUnknownTarget(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})
	playerA := joinPlayer(t, b, newFakeSocket("alpha"))

	err := playerA.Tank().Weapon.FireTarget(protocol.FireTargetData{Target: "ghost"})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
}

func TestNullWeaponIsSilent(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	playerB := joinPlayer(t, b, sockB)
	playerB.Tank().setState(TankActive)

	null := newWeaponHandler(playerA, &garage.WeaponItem{Archetype: "unknown_gun"})
	sockB.reset()

	if err := null.Fire(protocol.FireData{}); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if err := null.FireStatic(protocol.FireStaticData{}); err != nil {
		t.Fatalf("FireStatic: %v", err)
	}
	if err := null.FireTarget(protocol.FireTargetData{Target: "bravo"}); err != nil {
		t.Fatalf("FireTarget: %v", err)
	}

	if got := len(sockB.sent); got != 0 {
		t.Errorf("Null weapon produced %d broadcasts", got)
	}
	if health := playerB.Tank().Health(); health != TankMaxHealth {
		t.Errorf("Null weapon dealt damage: %.0f", health)
	}
}

// recordingDamage фиксирует аргументы каждого вызова DealDamage.
type recordingDamage struct {
	calls []damageCall
}

type damageCall struct {
	source, target string
	amount         float64
	splash         bool
}

func (d *recordingDamage) DealDamage(source, target *Tank, amount float64, splash bool) {
	d.calls = append(d.calls, damageCall{
		source: source.Id,
		target: target.Id,
		amount: amount,
		splash: splash,
	})
}

// Величина урона и флаг сплеша - часть контракта DealDamage.
// Прицельное попадание грома - прямое, не сплеш.
func TestDealDamageArgumentsPerArchetype(t *testing.T) {
	tests := []struct {
		archetype string
		amount    float64
		splash    bool
	}{
		{"thunder", 100, false},
		{"railgun", 85, false},
		{"smoky", 60, false},
		{"flamethrower", 15, true},
		{"freeze", 10, true},
	}

	rec := &recordingDamage{}
	b := New(context.Background(), "Test Battle", testMap(t, "sandbox"),
		NewDeathmatchModeHandler(), rec, &fakeDirectory{}, DefaultSettings())
	t.Cleanup(b.Close)

	playerA := joinPlayer(t, b, newFakeSocket("alpha"))
	playerB := joinPlayer(t, b, newFakeSocket("bravo"))
	playerB.Tank().setState(TankActive)

	for i, tt := range tests {
		weapon := newWeaponHandler(playerA, &garage.WeaponItem{Archetype: tt.archetype})
		if err := weapon.FireTarget(protocol.FireTargetData{Target: "bravo"}); err != nil {
			t.Fatalf("%s: FireTarget: %v", tt.archetype, err)
		}

		if len(rec.calls) != i+1 {
			t.Fatalf("%s: expected %d damage calls, got %d", tt.archetype, i+1, len(rec.calls))
		}

		call := rec.calls[i]
		if call.source != "alpha" || call.target != "bravo" {
			t.Errorf("%s: unexpected participants %q -> %q", tt.archetype, call.source, call.target)
		}
		if call.amount != tt.amount {
			t.Errorf("%s: expected %.0f damage, got %.0f", tt.archetype, tt.amount, call.amount)
		}
		if call.splash != tt.splash {
			t.Errorf("%s: expected splash=%v, got %v", tt.archetype, tt.splash, call.splash)
		}
	}
}

func TestKillUpdatesScoreboard(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})

	sockA := newFakeSocket("alpha")
	sockB := newFakeSocket("bravo")
	playerA := joinPlayer(t, b, sockA)
	playerB := joinPlayer(t, b, sockB)
	playerB.Tank().setState(TankActive)
	sockA.reset()

	b.Damage.DealDamage(playerA.Tank(), playerB.Tank(), TankMaxHealth, false)

	if playerB.Tank().State() != TankDead {
		t.Errorf("Expected dead tank, got %s", playerB.Tank().State())
	}
	if playerA.Kills() != 1 {
		t.Errorf("Expected 1 kill, got %d", playerA.Kills())
	}
	if playerA.Score() != 10 {
		t.Errorf("Expected score 10, got %d", playerA.Score())
	}
	if playerB.Deaths() != 1 {
		t.Errorf("Expected 1 death, got %d", playerB.Deaths())
	}
	if b.Fund() != 10 {
		t.Errorf("Expected fund 10, got %d", b.Fund())
	}

	// Статистика обоих игроков уходит всей битве
	if got := len(sockA.commands(protocol.UpdatePlayerStatistics)); got != 2 {
		t.Errorf("Expected 2 update_player_statistics, got %d", got)
	}
}

func TestDeadTankTakesNoDamage(t *testing.T) {
	b := newTestBattle(t, &fakeDirectory{})
	player := joinPlayer(t, b, newFakeSocket("alpha"))

	tank := player.Tank()
	if died := tank.applyDamage(TankMaxHealth + 500); !died {
		t.Fatal("Expected lethal damage to kill")
	}
	if tank.Health() != 0 {
		t.Errorf("Expected clamped health 0, got %.0f", tank.Health())
	}

	if died := tank.applyDamage(100); died {
		t.Error("Dead tank died twice")
	}
	if tank.Health() != 0 {
		t.Errorf("Dead tank health changed: %.0f", tank.Health())
	}
}

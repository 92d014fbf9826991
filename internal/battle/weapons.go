package battle

import (
	"fmt"

	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/protocol"
	"github.com/C6OI/protanki-server/pkg/logger"
)

// WeaponKind - архетип оружия. Закрытое множество; Null - явный член,
// а не неявный фолбэк.
type WeaponKind string

const (
	WeaponRailgun      WeaponKind = "railgun"
	WeaponThunder      WeaponKind = "thunder"
	WeaponIsida        WeaponKind = "isida"
	WeaponSmoky        WeaponKind = "smoky"
	WeaponTwins        WeaponKind = "twins"
	WeaponFlamethrower WeaponKind = "flamethrower"
	WeaponFreeze       WeaponKind = "freeze"
	WeaponRicochet     WeaponKind = "ricochet"
	WeaponShaft        WeaponKind = "shaft"
	WeaponNull         WeaponKind = "null"
)

// WeaponHandler превращает клиентское намерение выстрела в авторитетный урон
// и рассылаемый эффект. Привязан к одному танку, создается на createTank.
type WeaponHandler interface {
	Kind() WeaponKind
	Item() *garage.WeaponItem

	// Fire - выстрел в направлении (эффект shot).
	Fire(data protocol.FireData) error
	// FireStatic - попадание в геометрию (эффект shot_static).
	FireStatic(data protocol.FireStaticData) error
	// FireTarget - выстрел по именованной цели (урон + эффект shot_target).
	FireTarget(data protocol.FireTargetData) error
}

// weaponBase - общая механика всех архетипов. Варианты отличаются только
// величиной урона, флагом сплеша и тем, какие формы выстрела они используют.
type weaponBase struct {
	player *Player
	item   *garage.WeaponItem
	kind   WeaponKind

	damage float64
	splash bool
}

func (w *weaponBase) Kind() WeaponKind         { return w.kind }
func (w *weaponBase) Item() *garage.WeaponItem { return w.item }

// shooter - танк стреляющего. Отсутствие танка у стреляющего - нарушение
// инварианта протокола, не пользовательская ошибка.
func (w *weaponBase) shooter() (*Tank, error) {
	tank := w.player.Tank()
	if tank == nil {
		return nil, fmt.Errorf("fire without tank for %s: %w", w.player.Username(), ErrNoTank)
	}
	return tank, nil
}

func (w *weaponBase) Fire(data protocol.FireData) error {
	tank, err := w.shooter()
	if err != nil {
		return err
	}

	w.player.BroadcastToBattle(protocol.New(protocol.Shot, tank.Id, protocol.ToJson(data)))
	return nil
}

func (w *weaponBase) FireStatic(data protocol.FireStaticData) error {
	tank, err := w.shooter()
	if err != nil {
		return err
	}

	w.player.BroadcastToBattle(protocol.New(protocol.ShotStatic, tank.Id, protocol.ToJson(data)))
	return nil
}

func (w *weaponBase) FireTarget(data protocol.FireTargetData) error {
	sourceTank, err := w.shooter()
	if err != nil {
		return err
	}
	battle := w.player.Battle

	targetTank, err := battle.TankById(data.Target)
	if err != nil {
		return err
	}

	// Цель не в бою: молча игнорируем. Это штатный тай-брейк для гонки,
	// когда цель только что умерла или еще не заспавнилась.
	if targetTank.State() != TankActive {
		logger.Log.Debugf("Ignoring %s fire at %s in state %s", w.kind, targetTank.Id, targetTank.State())
		return nil
	}

	battle.Damage.DealDamage(sourceTank, targetTank, w.damage, w.splash)

	w.player.BroadcastToBattle(protocol.New(protocol.ShotTarget, sourceTank.Id, protocol.ToJson(data)))
	return nil
}

// --- ВАРИАНТЫ ---

type RailgunWeaponHandler struct{ weaponBase }
type ThunderWeaponHandler struct{ weaponBase }
type IsidaWeaponHandler struct{ weaponBase }
type SmokyWeaponHandler struct{ weaponBase }
type TwinsWeaponHandler struct{ weaponBase }
type FlamethrowerWeaponHandler struct{ weaponBase }
type FreezeWeaponHandler struct{ weaponBase }
type RicochetWeaponHandler struct{ weaponBase }
type ShaftWeaponHandler struct{ weaponBase }

// NullWeaponHandler принимает все три формы выстрела и ничего не делает.
// Используется для нераспознанного или не экипированного оружия.
type NullWeaponHandler struct{ weaponBase }

func (w *NullWeaponHandler) Fire(protocol.FireData) error             { return nil }
func (w *NullWeaponHandler) FireStatic(protocol.FireStaticData) error { return nil }
func (w *NullWeaponHandler) FireTarget(protocol.FireTargetData) error { return nil }

// newWeaponHandler выбирает вариант по ключу архетипа экипированного оружия.
// Нераспознанный ключ дает Null-обработчик (без урона и без эффектов).
func newWeaponHandler(player *Player, item *garage.WeaponItem) WeaponHandler {
	base := func(kind WeaponKind, damage float64, splash bool) weaponBase {
		return weaponBase{player: player, item: item, kind: kind, damage: damage, splash: splash}
	}

	switch WeaponKind(item.Archetype) {
	case WeaponRailgun:
		return &RailgunWeaponHandler{base(WeaponRailgun, 85, false)}
	case WeaponThunder:
		// Прицельное попадание гром наносит напрямую; сплеш-урон по области
		// идет отдельными выстрелами.
		return &ThunderWeaponHandler{base(WeaponThunder, 100, false)}
	case WeaponIsida:
		return &IsidaWeaponHandler{base(WeaponIsida, 45, false)}
	case WeaponSmoky:
		return &SmokyWeaponHandler{base(WeaponSmoky, 60, false)}
	case WeaponTwins:
		return &TwinsWeaponHandler{base(WeaponTwins, 35, false)}
	case WeaponFlamethrower:
		return &FlamethrowerWeaponHandler{base(WeaponFlamethrower, 15, true)}
	case WeaponFreeze:
		return &FreezeWeaponHandler{base(WeaponFreeze, 10, true)}
	case WeaponRicochet:
		return &RicochetWeaponHandler{base(WeaponRicochet, 40, false)}
	case WeaponShaft:
		return &ShaftWeaponHandler{base(WeaponShaft, 120, false)}
	case WeaponNull:
		return &NullWeaponHandler{base(WeaponNull, 0, false)}
	default:
		logger.Log.Warnf("Unknown weapon archetype %q, falling back to null handler", item.Archetype)
		return &NullWeaponHandler{base(WeaponNull, 0, false)}
	}
}

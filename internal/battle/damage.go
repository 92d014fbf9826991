package battle

import "github.com/C6OI/protanki-server/pkg/logger"

// DamageProcessor - авторитет по здоровью и смерти танков.
// Ядро синхронизации не дублирует эту логику, только вызывает ее.
type DamageProcessor interface {
	DealDamage(source, target *Tank, amount float64, splash bool)
}

// ServerDamageProcessor - серверная реализация: списывает здоровье,
// фиксирует смерть, обновляет счетчики и статистику обоих игроков.
type ServerDamageProcessor struct {
	battle *Battle
}

func NewDamageProcessor() *ServerDamageProcessor {
	return &ServerDamageProcessor{}
}

// bind привязывает процессор к битве при ее создании.
func (d *ServerDamageProcessor) bind(b *Battle) { d.battle = b }

func (d *ServerDamageProcessor) DealDamage(source, target *Tank, amount float64, splash bool) {
	died := target.applyDamage(amount)

	logger.Log.Debugf("%s -> %s: %.0f damage (splash=%v, died=%v)",
		source.Id, target.Id, amount, splash, died)

	if !died {
		return
	}

	source.Player.AddKill()
	source.Player.AddScore(killScore)
	target.Player.AddDeath()
	d.battle.AddFund(killFund)

	source.Player.UpdateStats()
	target.Player.UpdateStats()
}

const (
	killScore = 10
	killFund  = 10
)

// applyDamage списывает здоровье; возвращает true, если танк умер от этого
// урона. Уже мертвый танк урон не получает.
func (t *Tank) applyDamage(amount float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TankDead {
		return false
	}

	t.health -= amount
	if t.health > 0 {
		return false
	}

	t.health = 0
	t.state = TankDead
	return true
}

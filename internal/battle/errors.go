package battle

import "errors"

// Нарушения протокольных инвариантов: фатальны для одной входящей команды,
// соединение и остальные игроки не затрагиваются.
var (
	ErrNoUser         = errors.New("no user bound to socket")
	ErrNoBattlePlayer = errors.New("no battle player bound to socket")
	ErrNoTank         = errors.New("no tank bound to battle player")

	// ErrTargetNotFound - выстрел по цели, которой нет в битве.
	ErrTargetNotFound = errors.New("target tank not found")

	// ErrUserAlreadyInBattle - пользователь уже занимает слот в какой-то битве.
	ErrUserAlreadyInBattle = errors.New("user already occupies a battle slot")
)

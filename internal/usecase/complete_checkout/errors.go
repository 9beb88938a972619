package complete_checkout

import "errors"

var (
	// ErrNoAllocations возвращается, когда у корзины нет аллокаций
	ErrNoAllocations = errors.New("complete_checkout: cart has no allocations")

	// ErrHoldExpired возвращается, когда холд корзины уже протух
	ErrHoldExpired = errors.New("complete_checkout: hold has expired")

	// ErrAlreadyProcessed возвращается, когда аллокации корзины уже
	// подтверждены или отменены другим чекаутом
	ErrAlreadyProcessed = errors.New("complete_checkout: cart allocations already processed")

	// ErrLockTimeout возвращается, когда не удалось захватить блокировку
	// корзины; запрос можно повторить
	ErrLockTimeout = errors.New("complete_checkout: cart is busy, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_checkout: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_checkout: internal error")
)

package create_hold

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_hold: resource not found")

	// ErrResourceNotBookable возвращается, когда ресурс не бронируется
	ErrResourceNotBookable = errors.New("create_hold: resource is not bookable")

	// ErrWindowNotAvailable возвращается, когда запрошенное окно недоступно
	ErrWindowNotAvailable = errors.New("create_hold: requested window is not available")

	// ErrLockTimeout возвращается, когда не удалось захватить блокировку
	// ресурса; запрос можно повторить
	ErrLockTimeout = errors.New("create_hold: resource is busy, retry later")

	// ErrInvalidWindow возвращается при некорректном временном окне
	ErrInvalidWindow = errors.New("create_hold: invalid time window")

	// ErrWindowInPast возвращается, когда окно начинается в прошлом
	ErrWindowInPast = errors.New("create_hold: window starts in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)

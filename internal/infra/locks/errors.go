package locks

import "errors"

var (
	// ErrLockTimeout возвращается, когда блокировку не удалось получить
	// за отведенное время. Клиент может повторить запрос
	ErrLockTimeout = errors.New("locks.provider: lock acquisition timed out")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("locks.provider: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("locks.provider: failed to execute query")
)

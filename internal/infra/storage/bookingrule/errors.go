package bookingrule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило бронирования не найдено
	ErrRuleNotFound = errors.New("bookingrule.repository: booking rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("bookingrule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("bookingrule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("bookingrule.repository: failed to scan row")
)

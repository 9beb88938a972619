package resources

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resource not found")

	// ErrRuleNotFound возвращается, когда правило доступности не найдено
	ErrRuleNotFound = errors.New("availability rule not found")

	// ErrPricingConfigNotFound возвращается, когда конфигурация цены не найдена
	ErrPricingConfigNotFound = errors.New("pricing config not found")

	// ErrRuleConflict возвращается при дублировании имени или приоритета правила
	ErrRuleConflict = errors.New("rule name or priority already in use")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

package rules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило бронирования не найдено
	ErrRuleNotFound = errors.New("booking rule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

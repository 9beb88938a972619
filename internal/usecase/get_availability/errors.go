package get_availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_availability: resource not found")

	// ErrInvalidView возвращается при неизвестном виде календаря
	ErrInvalidView = errors.New("get_availability: invalid view")

	// ErrInvalidRange возвращается при некорректном запрошенном периоде
	ErrInvalidRange = errors.New("get_availability: invalid time range")

	// ErrRangeTooWide возвращается, когда запрошенный период слишком велик
	ErrRangeTooWide = errors.New("get_availability: requested range is too wide")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)

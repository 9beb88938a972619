package get_availability

import (
	"fmt"
	"time"
)

// maxRangeDays ограничивает запрошенный период, чтобы проекция слотов
// не раздувалась на годы вперед
const maxRangeDays = 370

// validateRequest проверяет запрос доступности
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if !req.From.Before(req.To) {
		return fmt.Errorf("%w: from must be before to", ErrInvalidRange)
	}
	if req.To.Sub(req.From) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range exceeds %d days", ErrRangeTooWide, maxRangeDays)
	}
	return nil
}

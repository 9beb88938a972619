package create_hold

import "fmt"

// validateRequest проверяет запрос на создание холда
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidWindow)
	}
	if req.CartID != nil && *req.CartID == "" {
		return fmt.Errorf("%w: cartId cannot be empty", ErrInvalidInput)
	}
	return nil
}

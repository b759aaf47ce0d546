package dto

// ErrorResponse cuerpo de error de la API. Code es estable (VALIDATION, NOT_FOUND,
// INSUFFICIENT_STOCK, SHIPPING_UNAVAILABLE, INVALID_DISCOUNT, CONFLICT...); Message es para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

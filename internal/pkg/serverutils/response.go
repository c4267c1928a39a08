package serverutils

// ApiResponse is the uniform envelope for every JSON response.
type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

type ErrorBody struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func ErrorResponse(message string, details ...string) ErrorBody {
	return ErrorBody{
		Success: false,
		Message: message,
		Details: details,
	}
}

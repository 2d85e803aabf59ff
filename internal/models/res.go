package models

type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Total   int    `json:"total,omitempty"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func CodedErrorResponse(code, err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// ListResponse wraps a collection and reports its length.
func ListResponse(data any, total int) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Total:   total,
	}
}

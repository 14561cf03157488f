package httpdto

type Response[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Details    any         `json:"details,omitempty"`
	Code       string      `json:"code,omitempty"`
}

type Pagination struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse is a success envelope carrying a message and data.
func NewMessageResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewPageResponse[T any](items []T, p Pagination) Response[[]T] {
	if items == nil {
		items = []T{}
	}
	return Response[[]T]{
		Success:    true,
		Data:       items,
		Pagination: &p,
	}
}

func NewErrorResponse(message string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
		Code:    code,
	}
}

// NewDetailedErrorResponse carries extra information such as the accepted
// values of an enum or the names of missing fields.
func NewDetailedErrorResponse(message, code string, details any) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
		Details: details,
		Code:    code,
	}
}

package serverutils

import "github.com/gofiber/fiber/v2"

// AppError is a user-visible error with an HTTP status. Everything else that
// goes wrong inside a chat turn degrades to a fallback answer instead of
// surfacing here.
type AppError struct {
	Code    int    `json:"-"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewInvalidSessionError() *AppError {
	return &AppError{
		Code:    fiber.StatusBadRequest,
		Kind:    "invalid_session",
		Message: "Session không hợp lệ. Hãy tạo session trước.",
	}
}

func NewCollectionMissingError() *AppError {
	return &AppError{
		Code:    fiber.StatusBadRequest,
		Kind:    "collection_missing",
		Message: "Vui lòng upload tài liệu trước khi đặt câu hỏi.",
	}
}

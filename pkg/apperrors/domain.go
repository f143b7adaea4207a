package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные ошибки бизнес-логики.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth & Users ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// --- Properties ---

var ErrPropertyNotFound = New(
	CodeNotFound,
	"property",
	"Property not found",
	http.StatusNotFound,
)

// ErrNotPropertyOwner - попытка изменить чужое объявление.
var ErrNotPropertyOwner = New(
	CodeForbidden,
	"property",
	"Only the owner can modify this property",
	http.StatusForbidden,
)

var ErrImageUploadFailed = New(
	CodeExternalServiceError,
	"image_store",
	"Failed to upload property images",
	http.StatusBadGateway,
)

// --- Subscriptions & Payments ---

var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"subscription",
	"Subscription not found",
	http.StatusNotFound,
)

// ErrActiveSubscriptionExists - у пользователя уже есть активная подписка.
var ErrActiveSubscriptionExists = New(
	CodeConflict,
	"subscription",
	"User already has an active subscription",
	http.StatusConflict,
)

var ErrSubscriptionCancelled = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription is already cancelled",
	http.StatusBadRequest,
)

var ErrPaymentFailed = New(
	CodeExternalServiceError,
	"payment",
	"Payment was not completed",
	http.StatusBadGateway,
)

// --- Reports ---

var ErrReportNotFound = New(
	CodeNotFound,
	"report",
	"Report not found",
	http.StatusNotFound,
)

var ErrReportAlreadyOpen = New(
	CodeConflict,
	"report",
	"You already have an open report for this property",
	http.StatusConflict,
)

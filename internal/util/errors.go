package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("course module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrPaymentNotFound    = errors.New("payment not found")

	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotPublished = errors.New("event not published")
	ErrEventFull         = errors.New("event is at capacity")
	ErrAlreadyRegistered = errors.New("already registered for this event")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product not available")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")

	ErrDonationNotFound    = errors.New("donation not found")
	ErrApplicationExists   = errors.New("an open application already exists for this email")
	ErrApplicationNotFound = errors.New("application not found")
	ErrGalleryItemNotFound = errors.New("gallery item not found")

	ErrInvalidImageExt = errors.New("仅支持PNG、JPG或WEBP图片")
	ErrInvalidVideoExt = errors.New("unsupported video format")
)

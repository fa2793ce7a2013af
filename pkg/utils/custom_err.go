package utils

import "errors"

var (
	ErrGenerationFailed         = errors.New("itinerary generation failed")
	ErrPlaceNotResolved         = errors.New("place not resolved")
	ErrInvalidItineraryRequest  = errors.New("invalid itinerary request")
	ErrPlaceSearchNotConfigured = errors.New("place search not configured")
	ErrInvalidPlaceFile         = errors.New("invalid place file")

	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserIDAlreadyExists = errors.New("user id already exists")
	ErrNicknameTaken       = errors.New("nickname already taken")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrAccountExists       = errors.New("account already exists")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrDatabaseError       = errors.New("database error")
)

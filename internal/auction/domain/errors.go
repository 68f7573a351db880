package domain

import "errors"

var (
	ErrInvalidUpdate    = errors.New("auction update is invalid")
	ErrInvalidBidTime   = errors.New("bid time has an unknown format")
	ErrBreedTooShort    = errors.New("Search term must be at least 3 letters and not just spaces")
	ErrAlreadyConnected = errors.New("subscriptions already opened for this connection")
	ErrPageNotFound     = errors.New("page not found")
)

package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with this ID already exists")
var ErrSessionActive = errors.New("another tiebreaker session is already active")
var ErrSessionNotFound = errors.New("tiebreaker session not found")

package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Vehicle errors
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle already exists")
	ErrInvalidLicensePlate  = errors.New("invalid license plate")
	ErrInvalidVehicleData   = errors.New("invalid vehicle data")
	ErrVehicleNotOwned      = errors.New("vehicle does not belong to driver")
	ErrVehicleInUse         = errors.New("vehicle is referenced by a ride")
)

// Ride errors
var (
	ErrRideNotFound        = errors.New("ride not found")
	ErrInvalidRideData     = errors.New("invalid ride data")
	ErrRideNotBookable     = errors.New("ride does not accept reservations")
	ErrRideAlreadyCanceled = errors.New("ride already canceled")
	ErrRideAlreadyFinished = errors.New("ride already finished")
)

// Reservation errors
var (
	ErrReservationNotFound        = errors.New("reservation not found")
	ErrInvalidReservationData     = errors.New("invalid reservation data")
	ErrSelfBooking                = errors.New("driver cannot book own ride")
	ErrNotEnoughSeats             = errors.New("not enough seats available")
	ErrReservationAlreadyCanceled = errors.New("reservation already canceled")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWeekNotFound        = errors.New("week not found")
	ErrAppendixNotFound    = errors.New("appendix not found")
	ErrCurriculumNotFound  = errors.New("curriculum document not found")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrOrderNotFound       = errors.New("order not found")
	ErrGatewayUnconfigured = errors.New("payment gateway not configured")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrNotEligible         = errors.New("course not yet completed")
)

package server

import (
	"github.com/agbru/primefac/internal/factorint"
)

// Response represents the standardized JSON response for a factorization request.
type Response struct {
	// N is the value that was factored.
	N uint64 `json:"n"`
	// Factors is the prime factorization of N. It is omitted if an error occurred.
	Factors []factorint.Factor `json:"factors,omitempty"`
	// Duration is the formatted execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the factorization failed.
	Error string `json:"error,omitempty"`
	// Algorithm is the name of the algorithm used for the factorization.
	Algorithm string `json:"algorithm"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// FactorParseError represents a parameter parsing error with HTTP status.
type FactorParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e FactorParseError) Error() string {
	return e.Message
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/primefac/internal/factorint"
	"github.com/agbru/primefac/internal/service"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAlgorithms returns the list of available factorization algorithms.
// It queries the service and returns the names as a JSON array.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	algorithms := s.service.AvailableAlgorithms()

	response := map[string]any{
		"algorithms": algorithms,
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleFactor processes requests to factor 64-bit integers.
// GET requests carry the parameters 'n' (the value), 'algo' (the algorithm)
// and 'seed' (the rho walk seed) in the query string; POST requests carry
// them in a JSON body. The factorization result is returned in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleFactor(w http.ResponseWriter, r *http.Request) {
	var (
		n    uint64
		algo string
		seed uint64
		err  error
	)

	switch r.Method {
	case http.MethodGet:
		n, algo, seed, err = parseFactorQuery(r)
	case http.MethodPost:
		n, algo, seed, err = parseFactorBody(r)
	default:
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err != nil {
		if parseErr, ok := err.(FactorParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the factorization
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	// Perform the factorization
	start := time.Now()
	factors, err := s.service.FactorizeNumber(ctx, algo, n, factorint.Options{Seed: seed})
	duration := time.Since(start)

	// Handle max value exceeded error
	if errors.Is(err, service.ErrMaxValueExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d). This limit bounds the cost of a single request.", s.securityConfig.MaxNValue))
		return
	}

	// Build and send response using helper
	resp := buildFactorResponse(n, algo, factors, duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// parseFactorQuery extracts and validates the factorization parameters from
// the query string of a GET request.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - n: The parsed value to factor.
//   - algo: The algorithm name (defaults to "rho" if not specified).
//   - seed: The rho walk seed (0 when absent, meaning the server default).
//   - err: A FactorParseError if validation fails, nil otherwise.
func parseFactorQuery(r *http.Request) (n uint64, algo string, seed uint64, err error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return 0, "", 0, FactorParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	// Base 0 accepts decimal and 0x-prefixed hexadecimal. ParseUint rejects
	// a negative sign, enforcing non-negative inputs.
	n, parseErr := strconv.ParseUint(nStr, 0, 64)
	if parseErr != nil {
		return 0, "", 0, FactorParseError{
			Message:    "Invalid 'n' parameter: must be a non-negative integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	if seedStr := r.URL.Query().Get("seed"); seedStr != "" {
		seed, parseErr = strconv.ParseUint(seedStr, 0, 64)
		if parseErr != nil {
			return 0, "", 0, FactorParseError{
				Message:    "Invalid 'seed' parameter: must be a non-negative integer",
				StatusCode: http.StatusBadRequest,
			}
		}
	}

	algo = r.URL.Query().Get("algo")
	if algo == "" {
		algo = "rho" // Default algorithm
	}

	return n, algo, seed, nil
}

// parseFactorBody extracts and validates the factorization parameters from
// the JSON body of a POST request. The 'n' field accepts a JSON number or a
// string; strings may use the 0x prefix for hexadecimal. Numbers are decoded
// through json.Number so 64-bit values above 2^53 survive intact.
//
// Parameters:
//   - r: The HTTP request containing the JSON body.
//
// Returns:
//   - n: The parsed value to factor.
//   - algo: The algorithm name (defaults to "rho" if not specified).
//   - seed: The rho walk seed (0 when absent, meaning the server default).
//   - err: A FactorParseError if validation fails, nil otherwise.
func parseFactorBody(r *http.Request) (n uint64, algo string, seed uint64, err error) {
	var body struct {
		N    any    `json:"n"`
		Algo string `json:"algo"`
		Seed uint64 `json:"seed"`
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if decodeErr := dec.Decode(&body); decodeErr != nil {
		return 0, "", 0, FactorParseError{
			Message:    "Invalid JSON body",
			StatusCode: http.StatusBadRequest,
		}
	}

	var parseErr error
	switch v := body.N.(type) {
	case string:
		n, parseErr = strconv.ParseUint(v, 0, 64)
	case json.Number:
		n, parseErr = strconv.ParseUint(v.String(), 10, 64)
	case nil:
		return 0, "", 0, FactorParseError{
			Message:    "Missing 'n' field",
			StatusCode: http.StatusBadRequest,
		}
	default:
		parseErr = fmt.Errorf("unsupported type %T", v)
	}
	if parseErr != nil {
		return 0, "", 0, FactorParseError{
			Message:    "Invalid 'n' field: must be a non-negative integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	algo = body.Algo
	if algo == "" {
		algo = "rho" // Default algorithm
	}

	return n, algo, body.Seed, nil
}

// buildFactorResponse constructs the response struct for a factorization.
//
// Parameters:
//   - n: The value that was factored.
//   - algo: The algorithm name used.
//   - factors: The factorization result (may be nil if error occurred).
//   - duration: The time taken for the factorization.
//   - err: Any error that occurred during factorization.
//
// Returns:
//   - Response: The constructed response struct.
func buildFactorResponse(n uint64, algo string, factors []factorint.Factor, duration time.Duration, err error) Response {
	resp := Response{
		N:         n,
		Duration:  duration.String(),
		Algorithm: algo,
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Factors = factors
	}

	return resp
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}

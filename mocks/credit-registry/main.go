package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort      = "8081"
	defaultAPIKey    = "credit-registry-secret-key"
	defaultLatencyMs = "100"
)

type SegmentRequest struct {
	PersonalCode string `json:"personal_code"`
}

type SegmentResponse struct {
	PersonalCode string `json:"personal_code"`
	Segment      string `json:"segment"`
	Modifier     int    `json:"credit_modifier"`
	CheckedAt    string `json:"checked_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/api/v1/segments/lookup", handleSegmentLookup)

	log.Printf("🏦 Mock Credit Registry API starting on port %s", port)
	log.Printf("📝 API Key: %s", apiKey)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "credit-registry",
		"version": "1.0.0",
	})
}

// notFoundCodes contains checksum-valid personal codes that return 404.
// These "magic" codes let e2e tests drive the unknown-person path.
var notFoundCodes = map[string]bool{
	"39005106404": true,
}

// failingCodes contains checksum-valid personal codes that return 500, for
// driving the registry-unavailable path.
var failingCodes = map[string]bool{
	"39005106502": true,
}

// Suffix bands of the deterministic partition. Must match the decision
// service's expectations: the last four digits of the personal code select
// the segment.
const (
	debtBandMax = 2499
	lowBandMax  = 4999
	midBandMax  = 7499
)

func handleSegmentLookup(w http.ResponseWriter, r *http.Request) {
	// Simulate latency
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	log.Printf("📥 Incoming request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authHeader := r.Header.Get("X-API-Key")
	if authHeader == "" {
		sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
		return
	}
	if authHeader != apiKey {
		sendError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	var req SegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.PersonalCode == "" {
		sendError(w, "personal_code is required", http.StatusBadRequest)
		return
	}

	suffix, ok := parseSuffix(req.PersonalCode)
	if !ok {
		sendError(w, "personal_code must be 11 digits", http.StatusUnprocessableEntity)
		return
	}

	if notFoundCodes[req.PersonalCode] {
		sendError(w, "Person not found in registry", http.StatusNotFound)
		log.Printf("🔍 Person not found (test code): %s", req.PersonalCode)
		return
	}

	if failingCodes[req.PersonalCode] {
		sendError(w, "Registry backend failure", http.StatusInternalServerError)
		log.Printf("💥 Simulated backend failure (test code): %s", req.PersonalCode)
		return
	}

	segment, modifier := segmentForSuffix(suffix)
	resp := SegmentResponse{
		PersonalCode: req.PersonalCode,
		Segment:      segment,
		Modifier:     modifier,
		CheckedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)

	log.Printf("✅ Segment lookup successful: %s -> %s (modifier=%d)", req.PersonalCode, segment, modifier)
}

// parseSuffix validates the shape of the personal code and returns its last
// four digits. The full checksum is the caller's concern; a registry only
// cares that the code is well formed enough to index.
func parseSuffix(code string) (int, bool) {
	if len(code) != 11 {
		return 0, false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	suffix, err := strconv.Atoi(code[7:])
	if err != nil {
		return 0, false
	}
	return suffix, true
}

func segmentForSuffix(suffix int) (string, int) {
	switch {
	case suffix <= debtBandMax:
		return "debt", 0
	case suffix <= lowBandMax:
		return "low_risk", 100
	case suffix <= midBandMax:
		return "mid_risk", 300
	default:
		return "high_risk", 500
	}
}

func sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
	log.Printf("❌ Error response: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"ean-price-extractor/extractor"
	"ean-price-extractor/internal/types"
	"ean-price-extractor/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// APIRequest represents the request body for the API
type APIRequest struct {
	EANs []string `json:"eans"`
}

// APIRow is one looked up EAN
type APIRow struct {
	EAN    string `json:"ean"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
}

// APIResponse represents the response from the API
type APIResponse struct {
	Success bool     `json:"success"`
	Data    []APIRow `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Server holds the API server configuration
type Server struct {
	logger *logrus.Logger
	config *types.Config
	runner *extractor.BatchRunner

	// mu serializes batches
	mu sync.Mutex
}

// NewServer creates a new API server
func NewServer(config *types.Config, logger *logrus.Logger, openSession extractor.SessionFactory) *Server {
	return &Server{
		logger: logger,
		config: config,
		runner: extractor.NewBatchRunner(config, logger, openSession),
	}
}

// handleLookup handles the lookup API endpoint
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Only allow POST requests
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse request body
	var req APIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var keys []types.LookupKey
	for _, ean := range req.EANs {
		if key, ok := types.ParseLookupKey(ean); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		s.sendError(w, "No EANs provided", http.StatusBadRequest)
		return
	}

	s.logger.Infof("API request received for %d EAN(s)", len(keys))

	s.mu.Lock()
	batch, err := s.runner.Run(r.Context(), keys)
	s.mu.Unlock()
	if err != nil {
		s.logger.Errorf("Batch failed: %v", err)
		s.sendError(w, "Lookup failed", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := utils.WriteCSV(w, batch); err != nil {
			s.logger.Errorf("Failed to write CSV response: %v", err)
		}
		return
	}

	rows := make([]APIRow, 0, len(batch.Results))
	for _, result := range batch.Results {
		row := result.Row()
		apiRow := APIRow{
			EAN:   string(row.Key),
			Name:  row.Name,
			Price: row.Price,
			Found: result.OK(),
		}
		if result.Failure != nil {
			apiRow.Reason = result.Failure.Reason.String()
		}
		rows = append(rows, apiRow)
	}

	s.sendJSON(w, http.StatusOK, APIResponse{Success: true, Data: rows})
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Routes returns the API handler
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lookup", s.handleLookup)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the API server
func (s *Server) Start(port string) error {
	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  POST /lookup - Look up name and price for a list of EANs (?format=csv for CSV)")
	s.logger.Info("  GET  /health - Health check")

	return http.ListenAndServe(":"+port, s.Routes())
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Setup logging
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := types.LoadConfig()
	if err := config.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Get port from environment variable, default to 8080
	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
		fmt.Printf("Using port from environment variable API_PORT: %s\n", serverPort)
	} else {
		fmt.Printf("No API_PORT environment variable found, using default: %s\n", serverPort)
	}

	server := NewServer(config, logger, extractor.BrowserSessionFactory(config, logger))
	log.Fatal(server.Start(serverPort))
}

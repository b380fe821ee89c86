package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int      `json:"port"`
	JWTSecret     string   `json:"jwt_secret"`
	JWTTTLHours   int      `json:"jwt_ttl_hours"`
	CORSAllowlist []string `json:"cors_allowlist"`
	// Pointer so an explicit 0 (rate limiting disabled) is distinguishable
	// from the key being absent. Load fills in the default when absent.
	ChatRateLimitSeconds *int             `json:"chat_rate_limit_seconds"`
	LogConfig            logger.LogConfig `json:"log_config"`
	Database             DatabaseConfig   `json:"database"`
	FileStore            FileStoreConfig  `json:"file_store"`
	Ledger               LedgerConfig     `json:"ledger"`
	AI                   AIConfig         `json:"ai"`
	RAG                  RAGConfig        `json:"rag"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LedgerConfig points at the provenance ledger node. An empty NodeURL
// disables ledger anchoring; ingestion then proceeds without receipts.
type LedgerConfig struct {
	NodeURL        string `json:"node_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// AIConfig selects the generative model provider. An empty Provider leaves
// the model unconfigured and every AI-backed feature degrades.
type AIConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

type RAGConfig struct {
	ChunkSize int `json:"chunk_size"`
	// Pointer so an explicit 0 (no overlap) is distinguishable from the
	// key being absent. Load fills in the default when absent.
	ChunkOverlap *int   `json:"chunk_overlap"`
	SearchLimit  int    `json:"search_limit"`
	ChunkTable   string `json:"chunk_table"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.FileStore.Type == "" {
		return nil, fmt.Errorf("file_store.type is required")
	}
	if cfg.Ledger.TimeoutSeconds == 0 {
		cfg.Ledger.TimeoutSeconds = 10
	}
	if cfg.AI.Provider != "" && cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required when ai.provider is set")
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == nil {
		overlap := 100
		cfg.RAG.ChunkOverlap = &overlap
	}
	if *cfg.RAG.ChunkOverlap < 0 {
		return nil, fmt.Errorf("rag.chunk_overlap must not be negative")
	}
	if cfg.RAG.SearchLimit == 0 {
		cfg.RAG.SearchLimit = 10
	}
	if cfg.RAG.ChunkTable == "" {
		cfg.RAG.ChunkTable = "case_chunks"
	}
	if cfg.RAG.ChunkSize <= *cfg.RAG.ChunkOverlap {
		return nil, fmt.Errorf("rag.chunk_size must be larger than rag.chunk_overlap")
	}
	if cfg.ChatRateLimitSeconds == nil {
		seconds := 2
		cfg.ChatRateLimitSeconds = &seconds
	}
	return &cfg, nil
}

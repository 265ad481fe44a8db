package config

import (
	"fmt"
	"os"
	"path/filepath"

	"daflow/internal/metrics"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// FieldType is the declared semantic type of a table field. Types are
// configuration resolved once at the boundary, never inferred from field
// naming conventions.
type FieldType string

const (
	FieldDate        FieldType = "date"
	FieldCategorical FieldType = "categorical"
	FieldText        FieldType = "text"
)

// Analytics declares the field vocabulary and business rules the metrics
// engine runs against. Loaded from a YAML file; every entry has a default
// matching the observed spreadsheet vocabulary.
type Analytics struct {
	RequestIDField     string `yaml:"request_id_field"`
	DatasetIDField     string `yaml:"dataset_id_field"`
	StatusField        string `yaml:"status_field"`
	DatasetStatusField string `yaml:"dataset_status_field"`
	ReceivedField      string `yaml:"received_field"`
	GrantedField       string `yaml:"granted_field"`

	OverdueThresholdDays int      `yaml:"overdue_threshold_days"`
	TerminalStatuses     []string `yaml:"terminal_statuses"`
	Bucket               string   `yaml:"bucket"`

	FieldTypes map[string]FieldType     `yaml:"field_types"`
	Stages     []metrics.MilestoneStage `yaml:"stages"`
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Analytics    Analytics
	ListenAddr   string
	DataPath     string
	LogDir       string
	SnapshotPath string
}

// DefaultAnalytics returns the built-in field vocabulary and review pipeline
// catalogue for IHD request sheets.
func DefaultAnalytics() Analytics {
	return Analytics{
		RequestIDField:       "REQUEST_ID",
		DatasetIDField:       "DATASET_ID",
		StatusField:          "REQUEST_STATUS",
		DatasetStatusField:   "DATASET_STATUS",
		ReceivedField:        "DATE_REQUEST_RECEIVED_X",
		GrantedField:         "DATE_ACCESS_GRANTED",
		OverdueThresholdDays: 90,
		TerminalStatuses:     []string{"Approved"},
		Bucket:               metrics.BucketWeek,
		FieldTypes: map[string]FieldType{
			"REQUEST_ID":                    FieldCategorical,
			"DATASET_ID":                    FieldCategorical,
			"NAME":                          FieldText,
			"EMAIL":                         FieldText,
			"REQUEST_STATUS":                FieldCategorical,
			"DATASET_NAME":                  FieldText,
			"DATASET_STATUS":                FieldCategorical,
			"DATE_REQUEST_RECEIVED_X":       FieldDate,
			"DATE_SHARED_SCIENTIFIC_REVIEW": FieldDate,
			"DATE_SCIENTIFIC_REVIEW_DONE":   FieldDate,
			"DATE_GOVERNANCE_REVIEW_DONE":   FieldDate,
			"DATE_ANONYMIZATION_DONE":       FieldDate,
			"DATE_ACCESS_GRANTED":           FieldDate,
		},
		Stages: []metrics.MilestoneStage{
			{Label: "Initial Review", StartField: "DATE_REQUEST_RECEIVED_X", EndField: "DATE_SHARED_SCIENTIFIC_REVIEW"},
			{Label: "Scientific Review", StartField: "DATE_SHARED_SCIENTIFIC_REVIEW", EndField: "DATE_SCIENTIFIC_REVIEW_DONE"},
			{Label: "Governance Review", StartField: "DATE_SCIENTIFIC_REVIEW_DONE", EndField: "DATE_GOVERNANCE_REVIEW_DONE"},
			{Label: "Anonymization", StartField: "DATE_GOVERNANCE_REVIEW_DONE", EndField: "DATE_ANONYMIZATION_DONE"},
			{Label: "Total Cycle", StartField: "DATE_REQUEST_RECEIVED_X", EndField: "DATE_ACCESS_GRANTED"},
		},
	}
}

// SummaryConfig maps the analytics declaration to the engine's summary
// contract.
func (a Analytics) SummaryConfig() metrics.SummaryConfig {
	return metrics.SummaryConfig{
		RequestIDField:       a.RequestIDField,
		DatasetIDField:       a.DatasetIDField,
		StatusField:          a.StatusField,
		DatasetStatusField:   a.DatasetStatusField,
		ReceivedField:        a.ReceivedField,
		GrantedField:         a.GrantedField,
		OverdueThresholdDays: a.OverdueThresholdDays,
		TerminalStatuses:     a.TerminalSet(),
	}
}

// TerminalSet returns the terminal statuses as a lookup set.
func (a Analytics) TerminalSet() map[string]bool {
	set := make(map[string]bool, len(a.TerminalStatuses))
	for _, s := range a.TerminalStatuses {
		set[s] = true
	}
	return set
}

// Validate checks the analytics declaration for programmer errors.
func (a Analytics) Validate() error {
	if a.Bucket != metrics.BucketWeek && a.Bucket != metrics.BucketMonth {
		return fmt.Errorf("invalid bucket %q: must be %q or %q", a.Bucket, metrics.BucketWeek, metrics.BucketMonth)
	}
	if a.OverdueThresholdDays <= 0 {
		return fmt.Errorf("overdue_threshold_days must be positive, got %d", a.OverdueThresholdDays)
	}
	if a.ReceivedField == "" {
		return fmt.Errorf("received_field must not be empty")
	}
	seen := make(map[string]bool)
	for _, stage := range a.Stages {
		if stage.Label == "" || stage.StartField == "" || stage.EndField == "" {
			return fmt.Errorf("stage %q: label, start_field and end_field are all required", stage.Label)
		}
		if seen[stage.Label] {
			return fmt.Errorf("duplicate stage label %q", stage.Label)
		}
		seen[stage.Label] = true
	}
	return nil
}

// Load loads the configuration from .env files, environment variables and
// the optional analytics YAML file.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	// 4. Analytics declaration: defaults overridden by the YAML file
	analytics := DefaultAnalytics()
	yamlPath := getEnv("ANALYTICS_CONFIG", filepath.Join(dataPath, "analytics.yaml"))
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &analytics); err != nil {
			return nil, fmt.Errorf("failed to parse analytics config %q: %w", yamlPath, err)
		}
		log.Info().Str("path", yamlPath).Msg("Loaded analytics configuration")
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read analytics config %q: %w", yamlPath, err)
	}

	if err := analytics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analytics configuration: %w", err)
	}

	cfg := &AppConfig{
		Analytics:    analytics,
		ListenAddr:   getEnv("DAFLOW_ADDR", ":8640"),
		DataPath:     dataPath,
		LogDir:       logDir,
		SnapshotPath: getEnv("SNAPSHOT_PATH", filepath.Join(dataPath, "records.jsonl")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

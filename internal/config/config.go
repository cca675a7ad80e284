// Package config provides type-safe, layered configuration for skillreport.
//
// Configuration layers are merged in a fixed order (lowest precedence first):
//  1. Built-in defaults (DefaultConfig)
//  2. Project config file (skillreport.yaml in the project root)
//  3. Environment variables (SKILLREPORT_* prefix)
//
// Each higher layer overrides a lower one field by field. Nested sections merge
// recursively, lists and scalar values are replaced as a whole. The merged
// result is validated before any consumer sees it; the Manager caches the
// validated config for the life of the process.
//
// IMPORTANT: This package may import internal/constants, internal/clock,
// internal/ctxutil, internal/errors and internal/logging, but MUST NOT import
// internal/cli.
package config

import "time"

// AppConfig is the root configuration structure for skillreport.
// After merging every field holds a concrete value.
type AppConfig struct {
	// AppName is the display name of the installation.
	// Default: "skillreport"
	AppName string `yaml:"app_name" mapstructure:"app_name" json:"app_name"`

	// Environment names the deployment environment.
	// Valid values: "development", "test", "staging", "production"
	// Default: "development"
	Environment string `yaml:"environment" mapstructure:"environment" json:"environment"`

	// DefaultProject is the project used when a request does not name one.
	// It must be a key of Projects.
	// Default: "default"
	DefaultProject string `yaml:"default_project" mapstructure:"default_project" json:"default_project"`

	// Strict reports unknown fields in configuration layers as warnings.
	// When true it overrides UnknownFields.
	// Default: false
	Strict bool `yaml:"strict" mapstructure:"strict" json:"strict"`

	// UnknownFields decides what happens to keys the schema does not declare.
	// Valid values: "ignore", "warn"
	// Default: "ignore"
	UnknownFields string `yaml:"unknown_fields" mapstructure:"unknown_fields" json:"unknown_fields"`

	// Log contains settings for application logging.
	Log LogConfig `yaml:"log" mapstructure:"log" json:"log"`

	// Database contains settings for the database client.
	Database DatabaseConfig `yaml:"database" mapstructure:"database" json:"database"`

	// Server contains settings for the HTTP server.
	Server ServerConfig `yaml:"server" mapstructure:"server" json:"server"`

	// Projects maps project identifiers to their configuration.
	// Entries introduced by a layer start from DefaultProjectConfig.
	Projects map[string]ProjectConfig `yaml:"projects" mapstructure:"projects" json:"projects"`
}

// LogConfig contains settings for application logging.
type LogConfig struct {
	// Level is the minimum log level ("trace", "debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level" mapstructure:"level" json:"level"`

	// Format selects console (human readable) or json output.
	// Default: "console"
	Format string `yaml:"format" mapstructure:"format" json:"format"`

	// File is the path of an optional rotating log file. Empty disables it.
	File string `yaml:"file" mapstructure:"file" json:"file"`

	// MaxSizeMB is the size a log file may reach before it is rotated.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb" json:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	// Default: 5
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups" json:"max_backups"`

	// MaxAgeDays is how long rotated files are retained.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days" json:"max_age_days"`

	// Compress enables gzip compression of rotated files.
	// Default: true
	Compress bool `yaml:"compress" mapstructure:"compress" json:"compress"`
}

// DatabaseConfig contains settings for the database client.
// The client itself is an external collaborator; it only consumes these values.
type DatabaseConfig struct {
	// URL is the connection string. Required outside development and test.
	URL string `yaml:"url" mapstructure:"url" json:"url"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns" json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns" json:"max_idle_conns"`

	// ConnTimeout is the timeout for establishing a connection.
	// Default: 5s
	ConnTimeout time.Duration `yaml:"conn_timeout" mapstructure:"conn_timeout" json:"conn_timeout"`
}

// ServerConfig contains settings for the HTTP server.
type ServerConfig struct {
	// Address is the listen address.
	// Default: ":8080"
	Address string `yaml:"address" mapstructure:"address" json:"address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" json:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" json:"write_timeout"`
}

// ProjectConfig is the configuration scoped to one project (tenant) of the
// skill report system.
type ProjectConfig struct {
	// Name is the human readable project name.
	// Default: "Default"
	Name string `yaml:"name" mapstructure:"name" json:"name"`

	// Description is free text shown on the project overview.
	Description string `yaml:"description" mapstructure:"description" json:"description"`

	// Features toggles optional functionality for the project.
	Features FeatureFlags `yaml:"features" mapstructure:"features" json:"features"`

	// Limits bounds resource usage of the project.
	Limits LimitsConfig `yaml:"limits" mapstructure:"limits" json:"limits"`

	// Connection holds settings for the project's outbound directory sync.
	Connection ConnectionConfig `yaml:"connection" mapstructure:"connection" json:"connection"`

	// UI contains presentation toggles.
	UI UIConfig `yaml:"ui" mapstructure:"ui" json:"ui"`

	// SkillCategories lists the categories skills are grouped into.
	// Replaced as a whole by an overriding layer.
	// Default: ["technical", "communication", "leadership"]
	SkillCategories []string `yaml:"skill_categories" mapstructure:"skill_categories" json:"skill_categories"`

	// Admins lists the e-mail addresses of project administrators.
	Admins []string `yaml:"admins" mapstructure:"admins" json:"admins"`

	// Labels are arbitrary key/value annotations. Merged key by key.
	Labels map[string]string `yaml:"labels" mapstructure:"labels" json:"labels"`
}

// FeatureFlags toggles optional functionality of a project.
type FeatureFlags struct {
	// SkillMatrix enables the team skill matrix view.
	// Default: true
	SkillMatrix bool `yaml:"skill_matrix" mapstructure:"skill_matrix" json:"skill_matrix"`

	// SelfAssessment lets members rate their own skills.
	// Default: true
	SelfAssessment bool `yaml:"self_assessment" mapstructure:"self_assessment" json:"self_assessment"`

	// ManagerReview lets managers review and adjust ratings.
	// Default: true
	ManagerReview bool `yaml:"manager_review" mapstructure:"manager_review" json:"manager_review"`

	// AnonymousFeedback hides the author of peer feedback.
	// Mutually exclusive with PublicProfiles.
	// Default: false
	AnonymousFeedback bool `yaml:"anonymous_feedback" mapstructure:"anonymous_feedback" json:"anonymous_feedback"`

	// PublicProfiles makes member skill profiles visible to the whole organization.
	// Default: false
	PublicProfiles bool `yaml:"public_profiles" mapstructure:"public_profiles" json:"public_profiles"`

	// ExportPDF enables PDF export of skill reports.
	// Default: false
	ExportPDF bool `yaml:"export_pdf" mapstructure:"export_pdf" json:"export_pdf"`
}

// LimitsConfig bounds resource usage of a project. All limits must be positive.
type LimitsConfig struct {
	// MaxMembers is the maximum number of members.
	// Default: 500
	MaxMembers int `yaml:"max_members" mapstructure:"max_members" json:"max_members"`

	// MaxSkillsPerMember is the maximum number of skills one member can track.
	// Default: 50
	MaxSkillsPerMember int `yaml:"max_skills_per_member" mapstructure:"max_skills_per_member" json:"max_skills_per_member"`

	// MaxReportsPerMonth caps generated reports per calendar month.
	// Default: 20
	MaxReportsPerMonth int `yaml:"max_reports_per_month" mapstructure:"max_reports_per_month" json:"max_reports_per_month"`

	// RatingMin is the lowest value on the rating scale.
	// Default: 1
	RatingMin int `yaml:"rating_min" mapstructure:"rating_min" json:"rating_min"`

	// RatingMax is the highest value on the rating scale. Must exceed RatingMin.
	// Default: 5
	RatingMax int `yaml:"rating_max" mapstructure:"rating_max" json:"rating_max"`
}

// ConnectionConfig holds settings for a project's outbound directory sync.
type ConnectionConfig struct {
	// BaseURL is the absolute http(s) URL of the directory service. Empty disables sync.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url"`

	// Timeout is the per-request timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// MaxRetries is the number of retries after a failed request.
	// Default: 3
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" json:"max_retries"`
}

// UIConfig contains presentation toggles.
type UIConfig struct {
	// Theme is one of "light", "dark" or "system".
	// Default: "light"
	Theme string `yaml:"theme" mapstructure:"theme" json:"theme"`

	// Locale is the BCP 47 language tag used for rendering.
	// Default: "en"
	Locale string `yaml:"locale" mapstructure:"locale" json:"locale"`

	// PageSize is the number of rows per page. Valid range: 1-500.
	// Default: 25
	PageSize int `yaml:"page_size" mapstructure:"page_size" json:"page_size"`

	// ShowAvatars renders member avatars in lists.
	// Default: true
	ShowAvatars bool `yaml:"show_avatars" mapstructure:"show_avatars" json:"show_avatars"`
}

// Project returns the configuration of the project with the given id.
// The boolean is false when the id is not configured.
func (c *AppConfig) Project(id string) (ProjectConfig, bool) {
	if c == nil || c.Projects == nil {
		return ProjectConfig{}, false
	}
	p, ok := c.Projects[id]
	return p, ok
}

package config

import (
	"github.com/mrz1836/skillreport/internal/constants"
)

// Known values for enumerated settings.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"

	UnknownFieldsIgnore = "ignore"
	UnknownFieldsWarn   = "warn"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// DefaultConfig returns a new AppConfig with every field set to its default.
// It is the lowest-precedence merge layer and must cover the whole schema;
// each call returns a fresh object graph.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		AppName:        constants.AppName,
		Environment:    constants.DefaultEnvironment,
		DefaultProject: constants.DefaultProjectID,
		Strict:         false,
		UnknownFields:  UnknownFieldsIgnore,
		Log: LogConfig{
			Level:      "info",
			Format:     LogFormatConsole,
			File:       "",
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAgeDays: constants.LogMaxAgeDays,
			Compress:   constants.LogCompress,
		},
		Database: DatabaseConfig{
			// URL: empty is accepted in development and test, where an
			// embedded database is used.
			URL:          "",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			ConnTimeout:  constants.DefaultDBConnTimeout,
		},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  constants.DefaultServerTimeout,
			WriteTimeout: constants.DefaultServerTimeout,
		},
		Projects: map[string]ProjectConfig{
			constants.DefaultProjectID: DefaultProjectConfig(),
		},
	}
}

// DefaultProjectConfig returns a ProjectConfig with every field set to its default.
// Projects that a layer introduces start from this value before being overlaid.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Name:        "Default",
		Description: "",
		Features: FeatureFlags{
			SkillMatrix:    true,
			SelfAssessment: true,
			ManagerReview:  true,
		},
		Limits: LimitsConfig{
			MaxMembers:         500,
			MaxSkillsPerMember: 50,
			MaxReportsPerMonth: 20,
			RatingMin:          1,
			RatingMax:          5,
		},
		Connection: ConnectionConfig{
			BaseURL:    "",
			Timeout:    constants.DefaultConnectionTimeout,
			MaxRetries: 3,
		},
		UI: UIConfig{
			Theme:       "light",
			Locale:      "en",
			PageSize:    25,
			ShowAvatars: true,
		},
		SkillCategories: []string{"technical", "communication", "leadership"},
		Admins:          []string{},
		Labels:          map[string]string{},
	}
}

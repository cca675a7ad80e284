package config

import "github.com/mrz1836/skillreport/internal/logging"

// Redacted returns a deep copy of cfg that is safe to print: credentials in
// connection URLs are masked and labels with secret-looking keys are replaced.
// cfg is not modified.
func Redacted(cfg *AppConfig) *AppConfig {
	if cfg == nil {
		return nil
	}
	out := Clone(cfg)
	out.Database.URL = logging.RedactURL(out.Database.URL)
	for id, p := range out.Projects {
		p.Connection.BaseURL = logging.RedactURL(p.Connection.BaseURL)
		for k, v := range p.Labels {
			p.Labels[k] = logging.SafeValue(k, v)
		}
		out.Projects[id] = p
	}
	return out
}

package testutil

// Configuration fixtures in skillreport.yaml form.
const (
	// ValidConfig is a complete configuration with two projects that passes
	// every validation rule without warnings.
	ValidConfig = `app_name: skills-hq
environment: staging
default_project: backend
log:
  level: info
  format: json
database:
  url: postgres://skills@db:5432/skills
  max_open_conns: 20
  max_idle_conns: 10
  conn_timeout: 3s
server:
  address: ":9090"
projects:
  backend:
    name: Backend
    skill_categories: [go, sql, communication]
    limits:
      max_members: 40
    connection:
      base_url: https://directory.example.com/api
      timeout: 5s
  frontend:
    name: Frontend
    features:
      public_profiles: true
    ui:
      theme: dark
      page_size: 50
`

	// InvalidConfig is well-formed but breaks three rules: a negative member
	// limit, an inverted rating scale and mutually exclusive feature flags.
	InvalidConfig = `projects:
  default:
    limits:
      max_members: -5
      rating_min: 4
      rating_max: 2
    features:
      anonymous_feedback: true
      public_profiles: true
`

	// MalformedConfig is not valid YAML.
	MalformedConfig = "server: [\n"
)

// Package config handles configuration loading for confhub-gateway.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, then a small set of environment overrides is applied so the
// same file can be reused across deployments. Without a file, FromEnv builds
// a configuration from defaults and the environment alone.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CONFHUB_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/confhub/gateway.yaml
//  3. ~/.config/confhub/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CONFHUB_JWT_SECRET}"
//
// # Environment Overrides
//
// These variables replace the file's value when set:
//
//	PORT                 port of server.http_addr (Cloud Run style)
//	CONFHUB_DB_PATH      database.path
//	ADMIN_PASSWORD       auth.admin_password
//	CORS_ORIGIN          cors.allowed_origin
//	CONFHUB_JWT_SECRET   auth.jwt_secret
//	CONFHUB_LOG_LEVEL    logging.level
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
//	database:
//	  path: "/var/lib/confhub/confhub.db"
//
//	auth:
//	  admin_password: "${ADMIN_PASSWORD}"   # or admin_password_hash (bcrypt)
//	  jwt_secret: "${CONFHUB_JWT_SECRET}"   # at least 32 bytes
//	  token_ttl: "24h"
//	  max_login_attempts: 5
//	  login_window: "15m"
//
//	cors:
//	  allowed_origin: "http://localhost:5173"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
//	event:
//	  name: "ConfHub 2026"
//	  tagline: "Two days of talks"
//	  date: "June 4-5, 2026"
//	  about: "Markdown shown under the hero"
//	  venue: "Convention Center"
//	  address: "1 Main St"
//	  map_url: "https://www.google.com/maps/embed?pb=..."
//	  designations: ["Software Engineer", "Designer", "Other"]
//
//	webadmin:
//	  api_base_url: "http://127.0.0.1:8080"
//
// # Validation
//
// Load() validates:
//
//   - An admin password or bcrypt hash is present
//   - JWT secret minimum length (32 bytes) when set
//   - Duration format validity
//   - CORS origin is a bare scheme://host[:port]
//   - Logging level and format values
package config

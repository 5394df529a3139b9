// Package config provides configuration management for the AYA Companion
// backend.
//
// Configuration is read from an optional YAML file, completed with defaults,
// overridden from the environment and validated before anything starts. A
// missing model endpoint or token is a validation error, so a misconfigured
// process refuses to start rather than failing on its first chat message.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// An empty path loads from the environment alone. A .env file in the working
// directory is read first when present.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention AYA_SECTION_FIELD:
//
//   - AYA_MODEL_ENDPOINT overrides model.endpoint
//   - AYA_MODEL_TOKEN overrides model.token
//   - AYA_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - AYA_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// DATABRICKS_ENDPOINT, DATABRICKS_PAT, HOST, PORT, FRONTEND_URL and
// ENVIRONMENT are also read, with lower precedence than AYA_ variables.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	environment: production
//	server:
//	  listen_address: "0.0.0.0:8000"
//	  cors:
//	    allowed_origins: ["https://aya.example.org"]
//	model:
//	  endpoint: "https://workspace.cloud.databricks.com/serving-endpoints/claude/invocations"
//	  timeout: 30s
//	  max_tokens: 1000
//	sessions:
//	  max_messages: 20
//	  cleanup_schedule: "@every 1h"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config

// Aya runs the AYA Companion backend: a multilingual cancer-center chat
// assistant that proxies conversations to a hosted model endpoint.
//
// Usage:
//
//	# Start the API server, configured from the environment
//	aya run
//
//	# Start with a configuration file
//	aya run --config /etc/aya/config.yaml
//
//	# Ask a single question from the terminal
//	aya ask --language es "¿Dónde está la clínica?"
//
//	# Probe the model endpoint
//	aya health --output json
//
//	# Show version information
//	aya version
package main

func main() {
	Execute()
}

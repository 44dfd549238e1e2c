package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redact-tools/redact-mcp/internal/cli"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Local overrides for development; missing .env is fine
	if err := godotenv.Load(); err == nil {
		if os.Getenv("REDACT_MCP_LOG_LEVEL") == "debug" {
			log.Printf("Loaded environment from .env")
		}
	}

	if err := cli.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

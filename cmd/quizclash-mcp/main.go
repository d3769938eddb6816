package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	qcmcp "quizclash/internal/mcp"
)

func main() {
	adminURL := flag.String("admin-url", "http://localhost:8081", "base URL of the quizclash admin API")
	flag.Parse()

	qcmcp.SetAdminURL(*adminURL)

	s := server.NewMCPServer("quizclash", "1.0.0")
	qcmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/yungbote/neurobridge-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	// Phase workers run in-process alongside the HTTP server; there is no
	// separate worker container for this pipeline.
	a.Start()

	fmt.Printf("Server listening on %s\n", a.Cfg.HTTPAddr)
	if err := a.Run(a.Cfg.HTTPAddr); err != nil {
		a.Log.Warn("Server failed", "error", err)
	}
}

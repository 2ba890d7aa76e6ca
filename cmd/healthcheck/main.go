package main

import (
	"fmt"
	"net/http"
	"os"
)

func main() {
	port := os.Getenv("INKWELL_PORT")
	if port == "" {
		port = "8080"
	}

	resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
	if err != nil || resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

package main

import (
	"log"
	"net/http"

	"fursa_connect/internal/config"
	"fursa_connect/internal/logger"
	"fursa_connect/internal/middleware"
	"fursa_connect/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("PORT", "8080")
	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

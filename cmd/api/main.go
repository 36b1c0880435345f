package main

import (
	"log"

	"github.com/shadowkingaftab/connect-hire/internal/server"
)

// @title ConnectHire API
// @version 1.0
// @description Job board backend with application tracking and shortlist notifications.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath /api/v1
func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("cannot start server: %s", err)
	}
}

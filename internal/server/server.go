package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/shadowkingaftab/connect-hire/internal/controller/file"
	"github.com/shadowkingaftab/connect-hire/internal/database"
	"github.com/shadowkingaftab/connect-hire/internal/notify"
)

// MyServer holds the database instance and shared clients the route
// handlers depend on
type MyServer struct {
	DB      *database.DBinstanceStruct
	Log     *logrus.Logger
	Storage file.StorageClient
	Mailer  *notify.Mailer
}

// NewServer construct new http.Server instance with all routes registered
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var storage file.StorageClient
	if bucket := os.Getenv("GCS_BUCKET_NAME"); bucket != "" {
		storage, err = file.NewCloudStorageClient(bucket)
		if err != nil {
			log.WithError(err).Warn("cloud storage unavailable, resume mirroring disabled")
			storage = nil
		}
	}

	mailer, err := notify.NewMailer(log)
	if err != nil {
		log.Fatalf("Mailer failed to initialize: %s", err)
	}

	s := &MyServer{
		DB:      db,
		Log:     log,
		Storage: storage,
		Mailer:  mailer,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/societyhq/society-api/api/handlers"
	"github.com/societyhq/society-api/api/scheduler"
	"github.com/societyhq/society-api/databases"

	"go.uber.org/zap"

	"github.com/societyhq/society-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { // initialize database and router
		log.Fatal(err)
	}

	// visitor expiry and retention sweep
	s := scheduler.NewScheduler(
		databases.NewVisitorDatabase(a.DB()),
		databases.NewSchedulerLockDatabase(a.DB()),
	)
	s.Start()
	defer s.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("society-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}

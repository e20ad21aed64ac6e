package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	addr := ":" + app.Config.Port
	app.Logger.Info("server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, app.Handler.Router()); err != nil {
		app.Logger.Fatal("server stopped", zap.Error(err))
	}
}

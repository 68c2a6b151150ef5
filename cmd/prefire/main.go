package main

import (
	"context"
	"log"

	"github.com/MrSnakeDoc/prefire/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatalf("prefire failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("prefire: %v", err)
	}
}

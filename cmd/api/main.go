package main

import (
	"context"
	"log"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("exports API failed: %v", err)
	}
}

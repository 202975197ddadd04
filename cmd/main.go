package main

import (
	"go.uber.org/fx"

	"docsign-client/internal/service"
)

func main() {
	fx.New(service.Gateway).Run()
}

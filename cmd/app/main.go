package main

import (
	"github.com/humanbelnik/kinoswap/duo/internal/app"
	"github.com/humanbelnik/kinoswap/duo/internal/config"
)

//go:generate swag init -g cmd/app/main.go -d ../../ -o ../../docs

// @title Duo API
// @version 1.0
// @description Paired film swiping: two participants judge the same shuffled catalog and get notified about films they both liked.
// @BasePath /api/v1
func main() {
	app.Go(config.Load())
}

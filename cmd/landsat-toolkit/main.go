package main

import (
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
)

func printBanner() {
	banner := figure.NewFigure("Landsat", "isometric1", true)
	bannercolor.Cyan(banner.String())
	fmt.Println()
}

func main() {
	// A missing .env is fine; configuration falls back to the environment.
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("../.env")
	}

	godal.RegisterAll()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

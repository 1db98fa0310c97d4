// The grocart command is the interactive grocery price-comparison
// client. It talks to the backend configured through flags, environment
// variables or a JSON config file; run it against cmd/grocartstub for a
// fully local session.
package main

import (
	"fmt"

	"github.com/patric-chuzhbe/grocart/internal/app"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func printBuildInfo() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

func main() {
	printBuildInfo()

	application, err := app.New()
	if err != nil {
		panic(err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		panic(err)
	}
}

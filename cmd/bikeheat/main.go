package main

import (
	"log"
	"os"

	"bikeheat/internal/cli"
)

func main() {
	if err := cli.App.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

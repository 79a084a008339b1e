package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/authgate/internal/cli"
)

func main() {

	gatewayURL := flag.String("g", "http://localhost:8000", "gateway base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("usage: cli [-g url] register|login")
		os.Exit(2)
	}

	app := cli.NewApp(*gatewayURL)
	if err := app.Run(context.Background(), flag.Arg(0)); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

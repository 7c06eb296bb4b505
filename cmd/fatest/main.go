package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/teknique/fatest/pkg/cli"
)

func main() {
	ctx := context.Background()
	fatCLI, err := cli.NewFatCLI()
	if err != nil {
		log.Fatal(err)
	}
	err = cli.NewFatCmd(fatCLI).ExecuteContext(ctx)
	if err != nil {
		if errors.Is(err, cli.ErrRejected) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

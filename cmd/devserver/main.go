package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/adminconsole/internal/buildinfo"
	"github.com/dmitrijs2005/adminconsole/internal/devserver"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := devserver.NewApp(cfg, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

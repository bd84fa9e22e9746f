package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	migrationCMD := makePGMigrationCMD()
	warmCMD := makeWarmCMD()
	filterCMD := makeFilterCMD()
	cacheCMD := makeCacheCMD()
	app.Commands = []cli.Command{serveCMD, migrationCMD, warmCMD, filterCMD, cacheCMD}
}

package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazy-embed/services/content"
	fe "github.com/webtor-io/lazy-embed/services/front_end"
	"github.com/webtor-io/lazy-embed/services/page"
)

func makeFilterCMD() cli.Command {
	filterCMD := cli.Command{
		Name:      "filter",
		Aliases:   []string{"f"},
		Usage:     "Replaces video embeds in html file and writes result to stdout",
		ArgsUsage: "[file]",
		Action:    filter,
	}
	configureFilter(&filterCMD)
	return filterCMD
}

func configureFilter(c *cli.Command) {
	c.Flags = append(c.Flags,
		cli.BoolFlag{
			Name:  "feed",
			Usage: "render as feed (leaves content untouched)",
		},
		cli.IntFlag{
			Name:  "post-id",
			Usage: "post id passed to filters",
		},
	)
	c.Flags = configureFrontEnd(c.Flags)
}

func readInput(c *cli.Context) ([]byte, error) {
	name := c.Args().First()
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", name)
	}
	return b, nil
}

func filter(c *cli.Context) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}

	// Setting Stack
	st, err := makeStack(c)
	if err != nil {
		return err
	}
	defer st.Close()

	// Setting FrontEnd
	f, err := makeFrontEnd(c, http.DefaultClient, st)
	if err != nil {
		return err
	}

	// Setting Content Filter
	cf := content.New(f.hooks, fe.OEmbedHTMLFilter)

	p := &page.Page{
		Feed:  c.Bool("feed"),
		Queue: f.assets.NewQueue(),
	}
	ctx := page.WithPage(context.Background(), p)
	f.hooks.DoAction(ctx, fe.EnqueueAction)

	out, n, err := cf.Process(ctx, string(in), c.Int("post-id"))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"replaced": n,
		"styles":   p.Queue.Styles(),
		"scripts":  p.Queue.Scripts(),
	}).Info("content filtered")
	_, err = io.WriteString(os.Stdout, out)
	return err
}

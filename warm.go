package main

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func makeWarmCMD() cli.Command {
	warmCMD := cli.Command{
		Name:      "warm",
		Aliases:   []string{"w"},
		Usage:     "Prefetches video metadata into cache",
		ArgsUsage: "[url...]",
		Action:    warm,
	}
	configureWarm(&warmCMD)
	return warmCMD
}

func configureWarm(c *cli.Command) {
	c.Flags = append(c.Flags,
		cli.StringFlag{
			Name:  "input, i",
			Usage: "file with urls, one per line (- for stdin)",
		},
	)
	c.Flags = configureFrontEnd(c.Flags)
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		u := strings.TrimSpace(sc.Text())
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		urls = append(urls, u)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read urls")
	}
	return urls, nil
}

func warmURLs(c *cli.Context) ([]string, error) {
	urls := append([]string{}, c.Args()...)
	input := c.String("input")
	if input == "" {
		return urls, nil
	}
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %v", input)
		}
		defer f.Close()
		r = f
	}
	more, err := readURLs(r)
	if err != nil {
		return nil, err
	}
	return append(urls, more...), nil
}

func warm(c *cli.Context) error {
	urls, err := warmURLs(c)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no urls provided")
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

	ctx := context.Background()
	failed := 0
	for _, u := range urls {
		l := log.WithField("url", u)
		md, err := f.Warm(ctx, u)
		if err != nil {
			l.WithError(err).Warn("failed to warm video metadata")
			failed++
			continue
		}
		l.WithFields(log.Fields{
			"title":  md.Title,
			"aspect": md.Aspect(),
		}).Info("video metadata cached")
	}
	if failed > 0 {
		return errors.Errorf("failed to warm %v of %v urls", failed, len(urls))
	}
	return nil
}

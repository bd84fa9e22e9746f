package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func makeCacheCMD() cli.Command {
	cacheCmd := cli.Command{
		Name:    "cache",
		Aliases: []string{"c"},
		Usage:   "Video metadata cache operations",
	}
	configureCache(&cacheCmd)
	return cacheCmd
}

func configureCache(c *cli.Command) {
	showCmd := cli.Command{
		Name:    "show",
		Usage:   "Prints cached video metadata",
		Aliases: []string{"s"},
		Action: func(c *cli.Context) error {
			return cacheShow(c)
		},
	}
	clearCmd := cli.Command{
		Name:    "clear",
		Usage:   "Removes all cached video metadata",
		Aliases: []string{"c"},
		Action: func(c *cli.Context) error {
			return cacheClear(c)
		},
	}
	c.Subcommands = []cli.Command{showCmd, clearCmd}
	for k := range c.Subcommands {
		configureSubCache(&c.Subcommands[k])
	}
}

func configureSubCache(c *cli.Command) {
	c.Flags = configureStore(c.Flags)
}

func cacheShow(c *cli.Context) error {
	// Setting Stack
	st, err := makeStack(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	all, err := st.cache.All(ctx)
	if err != nil {
		return err
	}
	size, err := st.cache.Size(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if all[k] == nil {
			continue
		}
		b, err := json.Marshal(all[k])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "%v\t%v\t%s\n", k, all[k].Aspect(), b)
	}
	log.WithFields(log.Fields{
		"entries": len(all),
		"size":    humanize.Bytes(uint64(size)),
	}).Info("video cache")
	return nil
}

func cacheClear(c *cli.Context) error {
	// Setting Stack
	st, err := makeStack(c)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	log.Info("clearing video cache")
	err = st.cache.Clear(ctx)
	if err != nil {
		return err
	}
	log.Info("video cache cleared")
	return nil
}

// Package main provides the linkshelf command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/di"
	"github.com/linkshelf/linkshelf/internal/logger"
)

const version = "0.1.0"

const usage = `linkshelf - personal bookmark manager.

Usage:
    linkshelf [options] login <email> <password>
    linkshelf [options] signup <email> <password> <confirm>
    linkshelf [options] logout
    linkshelf [options] whoami
    linkshelf [options] profile [--first=<name>] [--last=<name>] [--email=<email>]
    linkshelf [options] list [--search=<q>] [--category=<id>] [--tag=<id>] [--favorites] [--sort=<mode>] [--page=<n>]
    linkshelf [options] show <id>
    linkshelf [options] add <title> <link> [--description=<text>] [--category=<id>] [--tags=<names>]
    linkshelf [options] edit <id> [--title=<title>] [--link=<link>] [--description=<text>] [--category=<id> | --no-category] [--tags=<names>]
    linkshelf [options] rm <id>
    linkshelf [options] fav <id>
    linkshelf [options] categories
    linkshelf [options] category-add <name> [--color=<hex>] [--icon=<icon>]
    linkshelf [options] category-rename <id> <name>
    linkshelf [options] category-rm <id>
    linkshelf [options] tags [--suggest=<input>]
    linkshelf [options] tag-add <name>
    linkshelf [options] tag-rm <id>
    linkshelf -h | --help
    linkshelf --version

Sort modes are newest, oldest, title and position.
Tags are given as a comma-separated list.

Options:
    -h --help              Show this screen.
    --version              Show version.
    --api=<url>            Bookmark API base URL (env API_BASE_URL).
    --data=<dir>           Directory holding the session (env DATA_PATH).
    --env-file=<file>      Env file to load, .env when omitted.
    --log-level=<level>    debug, info, warn or error (env LOG_LEVEL).
    --mode=<mode>          paginated or local (env BOOKMARK_MODE).`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n", err)
		os.Exit(2)
	}

	overrides := config.Overrides{}
	overrides.APIBaseURL, _ = opts.String("--api")
	overrides.DataPath, _ = opts.String("--data")
	overrides.EnvFile, _ = opts.String("--env-file")
	overrides.LogLevel, _ = opts.String("--log-level")
	overrides.Mode, _ = opts.String("--mode")

	injector := di.NewContainer(overrides)
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := newApp(injector)
	runErr := app.run(ctx, opts)
	stop()

	// Flush notifications raised by the command before the queue is dropped.
	app.printNotifications(app.notes.List())

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

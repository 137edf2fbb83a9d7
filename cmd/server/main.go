package main

import (
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/blueprint"
	"github.com/ember-mush/goembermud/pkg/boltstore"
	"github.com/ember-mush/goembermud/pkg/server"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func main() {
	confFile := flag.String("conf", envDefault("EMBER_CONF", ""), "Path to game config file (env: EMBER_CONF)")
	worldDir := flag.String("world", envDefault("EMBER_WORLD", ""), "Path to blueprint directory, overrides config (env: EMBER_WORLD)")
	dataPath := flag.String("data", envDefault("EMBER_DATA", ""), "Path to bbolt world database, overrides config (env: EMBER_DATA)")
	envPort := 0
	if v := os.Getenv("EMBER_PORT"); v != "" {
		envPort, _ = strconv.Atoi(v)
	}
	port := flag.Int("port", envPort, "TCP port to listen on, overrides config (env: EMBER_PORT)")
	fresh := flag.Bool("fresh", os.Getenv("EMBER_FRESH") == "true", "Delete the bbolt database on startup and repopulate from blueprints (env: EMBER_FRESH)")
	flag.Parse()

	gc := server.DefaultGameConf()
	if *confFile != "" {
		var err error
		gc, err = server.LoadGameConf(*confFile)
		if err != nil {
			log.WithError(err).Fatal("loading game config")
		}
		log.WithField("path", *confFile).Info("game config loaded")
	}

	// Flags override config file values
	if *worldDir != "" {
		gc.BlueprintDir = *worldDir
	}
	if *dataPath != "" {
		gc.DataPath = *dataPath
	}
	if *port != 0 {
		gc.Port = *port
	}

	setupLogging(gc)

	if gc.BlueprintDir == "" {
		log.Fatal("no blueprint directory; set -world, EMBER_WORLD, or blueprint_dir in the config")
	}
	lib, err := blueprint.LoadDir(gc.BlueprintDir)
	if err != nil {
		log.WithError(err).Fatal("loading blueprints")
	}
	log.WithFields(log.Fields{
		"rooms":      len(lib.Rooms),
		"objects":    len(lib.Objects),
		"characters": len(lib.Characters),
	}).Info("blueprints loaded")

	var store *boltstore.Store
	var world *worlddb.World

	if gc.DataPath != "" {
		if *fresh {
			if err := os.Remove(gc.DataPath); err != nil && !os.IsNotExist(err) {
				log.WithError(err).Fatal("removing database for fresh start")
			}
			log.WithField("path", gc.DataPath).Info("fresh mode: database removed")
		}

		store, err = boltstore.Open(gc.DataPath)
		if err != nil {
			log.WithError(err).Fatal("opening world database")
		}
		defer store.Close()

		count, err := store.Count()
		if err != nil {
			log.WithError(err).Fatal("reading world database")
		}
		if count > 0 {
			world, err = store.LoadWorld(lib)
			if err != nil {
				log.WithError(err).Fatal("loading world")
			}
			log.WithField("entities", len(world.Entities)).Info("world restored")
		} else {
			world = worlddb.NewWorld(lib)
			if err := blueprint.Populate(world, lib); err != nil {
				log.WithError(err).Fatal("populating world")
			}
			if err := store.ImportWorld(world); err != nil {
				log.WithError(err).Fatal("saving initial world")
			}
			log.WithField("entities", len(world.Entities)).Info("world populated from blueprints")
		}
	} else {
		world = worlddb.NewWorld(lib)
		if err := blueprint.Populate(world, lib); err != nil {
			log.WithError(err).Fatal("populating world")
		}
		log.Info("running without persistence; world resets on restart")
	}

	game := server.NewGame(world, lib, gc)
	game.Store = store
	srv := server.NewServer(game)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		srv.Stop()
	}()

	log.WithFields(log.Fields{"name": gc.MudName, "port": gc.Port}).Info("starting")
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func setupLogging(gc *server.GameConf) {
	if level, err := log.ParseLevel(gc.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if gc.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

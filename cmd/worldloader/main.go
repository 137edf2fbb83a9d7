// Command worldloader builds a bbolt world database from a blueprint
// directory, without starting the game server. Useful for validating
// zone files in CI and for pre-seeding deployment volumes.
package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/blueprint"
	"github.com/ember-mush/goembermud/pkg/boltstore"
	"github.com/ember-mush/goembermud/pkg/validate"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

func main() {
	worldDir := flag.String("world", "world", "Path to blueprint directory")
	dataPath := flag.String("data", "", "Path to bbolt world database to write (empty = validate only)")
	force := flag.Bool("force", false, "Overwrite an existing database")
	flag.Parse()

	lib, err := blueprint.LoadDir(*worldDir)
	if err != nil {
		log.WithError(err).Fatal("loading blueprints")
	}

	world := worlddb.NewWorld(lib)
	if err := blueprint.Populate(world, lib); err != nil {
		log.WithError(err).Fatal("populating world")
	}
	log.WithFields(log.Fields{
		"rooms":      len(lib.Rooms),
		"objects":    len(lib.Objects),
		"characters": len(lib.Characters),
		"entities":   len(world.Entities),
	}).Info("world assembled")

	v := validate.New()
	for _, f := range v.Run(world) {
		entry := log.WithFields(log.Fields{"entity": f.Entity, "category": f.Category.String()})
		if f.Severity == validate.SevError {
			entry.Error(f.Description)
		} else {
			entry.Warn(f.Description)
		}
	}
	if n := v.Errors(); n > 0 {
		log.WithField("errors", n).Fatal("world failed integrity checks")
	}

	if *dataPath == "" {
		log.Info("validation only; no database written")
		return
	}

	if _, err := os.Stat(*dataPath); err == nil && !*force {
		log.WithField("path", *dataPath).Fatal("database exists; use -force to overwrite")
	}
	if *force {
		if err := os.Remove(*dataPath); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Fatal("removing existing database")
		}
	}

	store, err := boltstore.Open(*dataPath)
	if err != nil {
		log.WithError(err).Fatal("opening database")
	}
	defer store.Close()

	if err := store.ImportWorld(world); err != nil {
		log.WithError(err).Fatal("importing world")
	}
	n, _ := store.Count()
	log.WithFields(log.Fields{"path": *dataPath, "entities": n}).Info("world database written")
}

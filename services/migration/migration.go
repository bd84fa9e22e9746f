package migration

import (
	"github.com/go-pg/migrations/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	services "github.com/webtor-io/common-services"
)

const (
	dirFlag   = "migrations-dir"
	tableFlag = "migrations-table"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   dirFlag,
			Usage:  "directory with sql migrations",
			Value:  "migrations",
			EnvVar: "MIGRATIONS_DIR",
		},
		cli.StringFlag{
			Name:   tableFlag,
			Usage:  "table to keep migration version in",
			Value:  "lazy_embed_migrations",
			EnvVar: "MIGRATIONS_TABLE",
		},
	)
}

type PGMigration struct {
	db  *services.PG
	col *migrations.Collection
	dir string
}

func New(c *cli.Context, db *services.PG, col *migrations.Collection) *PGMigration {
	return NewPGMigration(db, col.SetTableName(c.String(tableFlag)), c.String(dirFlag))
}

func NewPGMigration(db *services.PG, col *migrations.Collection, dir string) *PGMigration {
	return &PGMigration{
		db:  db,
		col: col,
		dir: dir,
	}
}

func (s *PGMigration) Run(a ...string) error {
	db := s.db.Get()
	if db == nil {
		log.Infof("DB not initialized, skipping migration")
		return nil
	}
	err := s.col.DiscoverSQLMigrations(s.dir)
	if err != nil {
		return errors.Wrapf(err, "failed to discover migrations in %v", s.dir)
	}
	_, _, err = s.col.Run(db, "init")
	if err != nil {
		return errors.Wrap(err, "failed to init DB PGMigrations")
	}
	oldVersion, newVersion, err := s.col.Run(db, a...)
	if err != nil {
		return errors.Wrapf(err, "failed to perform PGMigration from %v to %v", oldVersion, newVersion)
	}
	if newVersion != oldVersion {
		log.WithFields(log.Fields{
			"from": oldVersion,
			"to":   newVersion,
		}).Info("DB migrated")
	} else {
		log.WithField("version", newVersion).Info("DB migration version")
	}
	return nil
}

// This program performs administrative tasks on a purchase journal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/lockedfyi/oracle/app/tooling/admin/commands"
	"github.com/lockedfyi/oracle/foundation/logger"
	"github.com/lockedfyi/oracle/foundation/oracle/database"
	"github.com/lockedfyi/oracle/foundation/oracle/database/storage/disk"
	"github.com/lockedfyi/oracle/foundation/oracle/database/storage/pebbledb"
	"github.com/lockedfyi/oracle/foundation/oracle/deployment"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("startup", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args  conf.Args
		State struct {
			Deployment string `conf:"default:zblock/deployment.yaml"`
			Storage    string `conf:"default:disk"`
			DBPath     string `conf:"default:zblock/purchases/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "purchase journal administration",
		},
	}

	const prefix = "ORACLE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	dep, err := deployment.Load(cfg.State.Deployment)
	if err != nil {
		return fmt.Errorf("unable to load deployment: %w", err)
	}

	var strg database.Serializer
	switch cfg.State.Storage {
	case "disk":
		strg, err = disk.New(cfg.State.DBPath)
	case "pebble":
		strg, err = pebbledb.New(cfg.State.DBPath)
	default:
		err = fmt.Errorf("unknown storage %q, use disk or pebble", cfg.State.Storage)
	}
	if err != nil {
		return err
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	db, err := database.New(dep.InitialSupply, strg, ev)
	if err != nil {
		strg.Close()
		return fmt.Errorf("replaying journal: %w", err)
	}
	defer db.Close()

	crv, err := dep.BuildCurve()
	if err != nil {
		return err
	}

	return processCommands(cfg.Args, db, crv)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, db *database.Database, crv commands.Pricer) error {
	switch args.Num(0) {
	case "supply":
		if err := commands.Supply(os.Stdout, db, crv); err != nil {
			return fmt.Errorf("getting supply: %w", err)
		}

	case "purchases":
		if err := commands.Purchases(os.Stdout, db, args.Num(1), args.Num(2)); err != nil {
			return fmt.Errorf("getting purchases: %w", err)
		}

	default:
		fmt.Println("supply:    show the supply restored from the journal and the next key price")
		fmt.Println("purchases: list the journal records, optionally from and to key numbers")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}

package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host      string    `koanf:"host"`
	Frontend  Frontend  `koanf:"frontend"`
	Store     Store     `koanf:"store"`
	Household Household `koanf:"household"`
	Calendar  Calendar  `koanf:"calendar"`
	Shopping  Shopping  `koanf:"shopping"`
	Bills     Bills     `koanf:"bills"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Store selects the tabular-store backend. "sheets" talks to a Google
// Spreadsheet, "postgres" keeps the same table contract in a local database.
type Store struct {
	Backend  string   `koanf:"backend"`
	Sheets   Sheets   `koanf:"sheets"`
	Database Database `koanf:"db"`
}

type Sheets struct {
	SpreadsheetId   string `koanf:"spreadsheetid"`
	CredentialsFile string `koanf:"credentialsfile"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Household carries the fixed roster of people eligible as event attendees.
type Household struct {
	Members []string `koanf:"members"`
}

type Calendar struct {
	Table      string `koanf:"table"`
	WindowDays int    `koanf:"windowdays"`
}

type Shopping struct {
	Table  string   `koanf:"table"`
	Stores []string `koanf:"stores"`
}

type Bills struct {
	Table string `koanf:"table"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Store: Store{
			Backend: "postgres",
			Database: Database{
				Host:   "localhost",
				Port:   5432,
				User:   "famhub",
				Pass:   "",
				Name:   "famhub",
				Schema: "famhub",
			},
		},
		Household: Household{
			Members: []string{"Emma", "Rohan", "Mia", "Coco"},
		},
		Calendar: Calendar{
			Table:      "Calendar",
			WindowDays: 14,
		},
		Shopping: Shopping{
			Table:  "Shopping",
			Stores: []string{"Coles", "Woolworths", "PetStock", "Bunnings", "Other"},
		},
		Bills: Bills{
			Table: "Bills",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FAMHUB_",
		TransformFunc: func(k, v string) (string, any) {
			// FAMHUB_STORE_BACKEND -> store.backend
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FAMHUB_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

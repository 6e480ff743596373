package main

import (
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func (a *App) InitDB() error {
	db, err := sqlx.Connect(a.Config.DatabaseDriver, a.Config.DatabaseURL)
	if err != nil {
		return err
	}
	a.DB = db

	return nil
}

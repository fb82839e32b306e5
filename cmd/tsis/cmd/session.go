package cmd

import (
	"fmt"

	"github.com/rustyeddy/tsis/api"
	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/journal"
)

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func newClient() (*api.Client, error) {
	timeout, err := cfg.API.ParseTimeout()
	if err != nil {
		return nil, fmt.Errorf("api timeout: %w", err)
	}
	return api.NewClient(cfg.API.BaseURL, timeout), nil
}

// newService builds a calculator session restored from the journal.
func newService(j *journal.SQLite, opts ...calculator.Option) (*calculator.Service, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	opts = append([]calculator.Option{
		calculator.WithLogger(logger),
		calculator.WithPersistence(j.Session(cfg.Journal.SessionKey)),
	}, opts...)
	return calculator.New(client, opts...), nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/report"
	"github.com/davecgh/go-spew/spew"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createReportRunTableSQL = "CREATE TABLE IF NOT EXISTS reportrun (id TEXT PRIMARY KEY, symbol TEXT, resolution TEXT, window INTEGER, pumps INTEGER, dumps INTEGER, createdon INTEGER)"
	createMetadataSQL       = "CREATE TABLE IF NOT EXISTS metadata (id TEXT PRIMARY KEY, runs INTEGER, pumps INTEGER, dumps INTEGER, createdon INTEGER)"
	persistReportRunSQL     = "INSERT INTO reportrun(id, symbol, resolution, window, pumps, dumps, createdon) VALUES(?,?,?,?,?,?,?)"
	findMetadataSQL         = "SELECT * FROM metadata where id = ?"
	updateMetadataSQL       = "UPDATE metadata SET runs = runs + 1, pumps = pumps + ?, dumps = dumps + ? WHERE id = ?"
	persistMetadataSQL      = "INSERT INTO metadata(id, runs, pumps, dumps, createdon) VALUES(?,?,?,?,?)"
)

// ReportStorer defines the requirements for storing report runs.
type ReportStorer interface {
	// PersistReportRun stores the provided report run summary to the database.
	PersistReportRun(ctx context.Context, summary *report.RunSummary) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *DatabaseConfig) Validate() error {
	var errs error

	if cfg.Endpoint == "" {
		errs = errors.Join(errs, fmt.Errorf("database endpoint cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the ReportStorer interface.
var _ ReportStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating database config: %w", err)
	}

	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	if cfg.User != "" {
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createMetadataSQL},
		{SQL: createReportRunTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// generateMetadataID generates deterministic ids for metadata using the
// current month, week and symbol.
func generateMetadataID(currentTime time.Time, symbol string) string {
	month := currentTime.Month().String()
	week := currentTime.Day() / 7

	id := fmt.Sprintf("%s-Week-%d-%s", month, week, symbol)
	return id
}

// PersistReportRun stores the provided report run summary to the database.
func (db *Database) PersistReportRun(ctx context.Context, summary *report.RunSummary) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistReportRunSQL,
			PositionalParams: []any{summary.ID, summary.Symbol, summary.Resolution,
				summary.Window, summary.Pumps, summary.Dumps, summary.CreatedOn},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	if summary.Pumps == 0 && summary.Dumps == 0 {
		db.cfg.Logger.Error().Msgf("unexpected report run state for metadata calculations: %s", spew.Sdump(summary))
	}

	now := time.Unix(summary.CreatedOn, 0).UTC()
	id := generateMetadataID(now, summary.Symbol)
	resp, err := db.client.QuerySingle(ctx, findMetadataSQL, id)
	if err != nil {
		return err
	}

	exists := len(resp.GetQueryResultsAssoc()) > 0
	switch {
	case exists:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              updateMetadataSQL,
				PositionalParams: []any{summary.Pumps, summary.Dumps, id},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("updating metadata %s: %d -> %s", id, idx, errStr)
		}
	default:
		resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
			{
				SQL:              persistMetadataSQL,
				PositionalParams: []any{id, 1, summary.Pumps, summary.Dumps, now.Unix()},
			},
		}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
		if err != nil {
			return err
		}
		has, idx, errStr := resp.HasError()
		if has {
			return fmt.Errorf("persisting metadata %s: %d -> %s", id, idx, errStr)
		}
	}

	return nil
}

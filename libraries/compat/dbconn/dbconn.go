// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dbconn hides the database client libraries behind a small Pool / Conn / Row interface so that result
// comparison never depends on a particular client.
package dbconn

import (
	"context"
	"sort"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

const (
	// MySqlDriver speaks the MySQL text protocol through go-mysql and reports every value exactly as the server
	// sent it.
	MySqlDriver = "mysql"
	// GoSqlDriver goes through database/sql and go-sql-driver/mysql. Values are what a database/sql client sees,
	// so numeric columns come back reformatted by the driver (1e20 reads as 1e+20).
	GoSqlDriver    = "go-sql-driver"
	PostgresDriver = "postgres"

	DefaultDriver = MySqlDriver

	defaultPostgresDatabase = "postgres"
)

var ErrConnect = goerrors.NewKind("unable to connect to %s server at %s")
var ErrUnknownDriver = goerrors.NewKind("unknown driver '%s'. valid drivers are: %v")

// Row is one row of a result set. Columns are addressed by index.
type Row interface {
	// Len returns the number of columns in the row.
	Len() int
	// Text returns the textual form of column |i|. NULL is returned as the empty string. An error is returned when
	// the column doesn't exist or can't be represented as text.
	Text(i int) (string, error)
}

// Conn is a single connection to a server.
type Conn interface {
	// Query runs |query| and returns every row of its result set. Statements that don't produce a result set return
	// no rows.
	Query(ctx context.Context, query string) ([]Row, error)
	Close() error
}

// Pool hands out connections to a single server.
type Pool interface {
	Conn(ctx context.Context) (Conn, error)
	Close() error
}

// Config holds everything needed to reach a server.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Params   map[string]string
}

type opener func(ctx context.Context, cfg Config) (Pool, error)

var openers = map[string]opener{
	MySqlDriver:    openMySql,
	GoSqlDriver:    openGoSqlDriver,
	PostgresDriver: openPostgres,
}

// Drivers returns the names of all supported drivers, sorted.
func Drivers() []string {
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns a Pool for the server described by |cfg|. The server is contacted before Open returns, so an
// unreachable server or bad credentials are reported here.
func Open(ctx context.Context, cfg Config) (Pool, error) {
	if cfg.Driver == "" {
		cfg.Driver = DefaultDriver
	}

	open, ok := openers[cfg.Driver]
	if !ok {
		return nil, ErrUnknownDriver.New(cfg.Driver, Drivers())
	}

	return open(ctx, cfg)
}

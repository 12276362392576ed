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

package dbconn

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	sqlMySqlDriver    = "mysql"
	sqlPostgresDriver = "postgres"
)

func openGoSqlDriver(ctx context.Context, cfg Config) (Pool, error) {
	return openSqlx(ctx, GoSqlDriver, sqlMySqlDriver, cfg.mySqlDSN(), cfg.Addr())
}

func openPostgres(ctx context.Context, cfg Config) (Pool, error) {
	return openSqlx(ctx, PostgresDriver, sqlPostgresDriver, cfg.postgresDSN(), cfg.Addr())
}

// sqlxPool is a Pool backed by a database/sql connection pool.
type sqlxPool struct {
	db   *sqlx.DB
	name string
	addr string
}

var _ Pool = (*sqlxPool)(nil)

// openSqlx opens a database/sql pool using the registered sql driver |sqlDriverName|. |driverName| is the dbconn
// driver name used in errors and logs.
func openSqlx(ctx context.Context, driverName, sqlDriverName, dsn, addr string) (p Pool, err error) {
	db, err := sqlx.Open(sqlDriverName, dsn)
	if err != nil {
		return nil, ErrConnect.Wrap(err, driverName, addr)
	}

	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, ErrConnect.Wrap(err, driverName, addr)
	}

	logrus.WithField("driver", driverName).WithField("addr", addr).Debug("connected")
	return &sqlxPool{db: db, name: driverName, addr: addr}, nil
}

func (p *sqlxPool) Conn(ctx context.Context) (Conn, error) {
	conn, err := p.db.Connx(ctx)
	if err != nil {
		return nil, ErrConnect.Wrap(err, p.name, p.addr)
	}
	return &sqlxConn{conn: conn}, nil
}

func (p *sqlxPool) Close() error {
	return p.db.Close()
}

type sqlxConn struct {
	conn *sqlx.Conn
}

var _ Conn = (*sqlxConn)(nil)

func (c *sqlxConn) Query(ctx context.Context, query string) (results []Row, err error) {
	rows, err := c.conn.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		rerr := rows.Close()
		if err == nil {
			err = rerr
		}
	}()

	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		results = append(results, ValueRow(vals))
	}

	return results, rows.Err()
}

func (c *sqlxConn) Close() error {
	return c.conn.Close()
}

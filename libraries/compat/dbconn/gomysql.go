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
	"fmt"
	"sync"

	"github.com/go-mysql-org/go-mysql/client"
	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/sirupsen/logrus"
)

const (
	charsetParam   = "charset"
	collationParam = "collation"
)

// textConn is the part of a go-mysql client connection used to run queries.
type textConn interface {
	Execute(command string, args ...interface{}) (*mysql.Result, error)
	Close() error
}

var _ textConn = (*client.Conn)(nil)

// dialMySql is replaced in tests.
var dialMySql = func(cfg Config) (textConn, error) {
	var opts []client.Option
	if collation, ok := cfg.Params[collationParam]; ok {
		opts = append(opts, func(c *client.Conn) error {
			return c.SetCollation(collation)
		})
	}

	conn, err := client.Connect(cfg.Addr(), cfg.User, cfg.Password, cfg.Database, opts...)
	if err != nil {
		return nil, err
	}

	if charset, ok := cfg.Params[charsetParam]; ok {
		if err := conn.SetCharset(charset); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

// goMySqlPool dials go-mysql client connections. go-mysql has no pool of its own, so the connection made to verify
// the server in Open is handed out by the first call to Conn and later calls dial a new one.
type goMySqlPool struct {
	cfg Config

	mu   sync.Mutex
	idle textConn
}

var _ Pool = (*goMySqlPool)(nil)

func openMySql(ctx context.Context, cfg Config) (Pool, error) {
	for k := range cfg.Params {
		if k != charsetParam && k != collationParam {
			logrus.WithField("driver", MySqlDriver).Warnf("connection param %s is not supported and will be ignored", k)
		}
	}

	p := &goMySqlPool{cfg: cfg}
	conn, err := p.dial()
	if err != nil {
		return nil, err
	}

	logrus.WithField("driver", MySqlDriver).WithField("addr", cfg.Addr()).Debug("connected")
	p.idle = conn
	return p, nil
}

func (p *goMySqlPool) dial() (textConn, error) {
	conn, err := dialMySql(p.cfg)
	if err != nil {
		return nil, ErrConnect.Wrap(err, MySqlDriver, p.cfg.Addr())
	}
	return conn, nil
}

func (p *goMySqlPool) Conn(ctx context.Context) (Conn, error) {
	p.mu.Lock()
	conn := p.idle
	p.idle = nil
	p.mu.Unlock()

	if conn == nil {
		var err error
		conn, err = p.dial()
		if err != nil {
			return nil, err
		}
	}

	return &goMySqlConn{conn: conn}, nil
}

func (p *goMySqlPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.idle == nil {
		return nil
	}

	err := p.idle.Close()
	p.idle = nil
	return err
}

type goMySqlConn struct {
	conn textConn
}

var _ Conn = (*goMySqlConn)(nil)

func (c *goMySqlConn) Query(_ context.Context, query string) ([]Row, error) {
	res, err := c.conn.Execute(query)
	if err != nil {
		return nil, err
	}

	if res == nil || res.Resultset == nil {
		return nil, nil
	}

	return resultsetRows(res.Resultset)
}

func (c *goMySqlConn) Close() error {
	return c.conn.Close()
}

// resultsetRows decodes the raw text protocol rows of |rs|. The parsed Values of the result set are not used since
// go-mysql converts numeric columns to Go numbers and formats them again on the way out.
func resultsetRows(rs *mysql.Resultset) ([]Row, error) {
	rows := make([]Row, len(rs.RowDatas))
	for i, data := range rs.RowDatas {
		row, err := decodeTextRow(data, len(rs.Fields))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// decodeTextRow splits a text protocol row packet into its |numCols| length encoded values. NULL becomes "".
func decodeTextRow(data []byte, numCols int) (TextRow, error) {
	row := make(TextRow, numCols)
	pos := 0
	for i := range row {
		if pos >= len(data) {
			return nil, fmt.Errorf("malformed row: found %d of %d columns", i, numCols)
		}

		val, isNull, n, err := mysql.LengthEncodedString(data[pos:])
		if err != nil {
			return nil, fmt.Errorf("malformed value in column %d: %w", i+1, err)
		}
		pos += n

		if !isNull {
			row[i] = string(val)
		}
	}
	return row, nil
}

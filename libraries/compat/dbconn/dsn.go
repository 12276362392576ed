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
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

const (
	tcpProtocol = "tcp"

	postgresScheme     = "postgres"
	postgresSslModeKey = "sslmode"
	postgresSslDisable = "disable"
)

// Addr returns the host:port address of the server.
func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

func (cfg Config) mySqlDSN() string {
	mcfg := mysql.NewConfig()
	mcfg.User = cfg.User
	mcfg.Passwd = cfg.Password
	mcfg.Net = tcpProtocol
	mcfg.Addr = cfg.Addr()
	mcfg.DBName = cfg.Database
	if len(cfg.Params) > 0 {
		mcfg.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mcfg.Params[k] = v
		}
	}
	return mcfg.FormatDSN()
}

// postgresDSN returns a connection URL understood by lib/pq. TLS is off unless a sslmode param is given.
func (cfg Config) postgresDSN() string {
	db := cfg.Database
	if db == "" {
		db = defaultPostgresDatabase
	}

	query := url.Values{}
	for k, v := range cfg.Params {
		query.Set(k, v)
	}
	if query.Get(postgresSslModeKey) == "" {
		query.Set(postgresSslModeKey, postgresSslDisable)
	}

	u := url.URL{
		Scheme:   postgresScheme,
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Addr(),
		Path:     "/" + db,
		RawQuery: query.Encode(),
	}
	return u.String()
}

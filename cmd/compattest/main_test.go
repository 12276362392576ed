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

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/dolt/compattest/cmd/compattest/cli"
	"github.com/dolthub/dolt/compattest/libraries/compat/dbconn"
)

// fakeServer answers queries from a fixed table of results.
type fakeServer struct {
	results map[string][][]string
	queries []string
	closed  bool
	cfg     dbconn.Config
}

func (s *fakeServer) Conn(ctx context.Context) (dbconn.Conn, error) {
	return s, nil
}

func (s *fakeServer) Query(ctx context.Context, query string) ([]dbconn.Row, error) {
	s.queries = append(s.queries, query)
	res, ok := s.results[query]
	if !ok {
		return nil, fmt.Errorf("unknown query %q", query)
	}
	rows := make([]dbconn.Row, len(res))
	for i, r := range res {
		rows[i] = dbconn.TextRow(r)
	}
	return rows, nil
}

func (s *fakeServer) Close() error {
	s.closed = true
	return nil
}

const sentinel = "SELECT 'never run'"

func newFakeServer() *fakeServer {
	return &fakeServer{
		results: map[string][][]string{
			"CREATE TABLE t (a INT, b TEXT)":     {},
			"SELECT a, b FROM t ORDER BY a":      {{"1", "x"}, {"2", "y"}},
			"SELECT COUNT(*) FROM t":             {{"2"}},
			"SELECT b FROM t WHERE a = 1":        {{"x"}},
			"SELECT NULL, 1":                     {{"", "1"}},
			sentinel:                             {{"never run"}},
			"SELECT a FROM t WHERE a = 3":        {},
			"SELECT a, b FROM t WHERE a = 1 + 1": {{"2", "y"}},
		},
	}
}

type runResult struct {
	code   int
	stdout string
	stderr string
	server *fakeServer
}

func runWith(t *testing.T, server *fakeServer, openErr error, args ...string) runResult {
	var stdout, stderr bytes.Buffer
	cli.SetIOStreams(&stdout, &stderr)
	t.Cleanup(func() { cli.SetIOStreams(os.Stdout, os.Stderr) })

	prev := openPool
	openPool = func(ctx context.Context, cfg dbconn.Config) (dbconn.Pool, error) {
		if openErr != nil {
			return nil, openErr
		}
		server.cfg = cfg
		return server, nil
	}
	t.Cleanup(func() { openPool = prev })

	code := run(context.Background(), append([]string{"--no-color"}, args...))
	return runResult{code, stdout.String(), stderr.String(), server}
}

func writeTestFile(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "cases.test")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestUsage(t *testing.T) {
	t.Run("too few arguments", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "Usage: compattest")
		assert.Empty(t, res.server.queries)
	})

	t.Run("no arguments", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "<testFile>")
	})

	t.Run("help", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "--help")
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stdout, "Usage: compattest")
		assert.Contains(t, res.stdout, "--driver")
	})

	t.Run("unknown option", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "--bogus", "h", "1", "u", "p", "f")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "Usage: compattest")
	})

	t.Run("unknown driver", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "--driver", "oracle", "h", "1", "u", "p", "f")
		assert.Equal(t, 1, res.code)
	})
}

func TestInvalidPort(t *testing.T) {
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n2\n")
	for _, port := range []string{"abc", "0", "65536", "3306.5", ""} {
		t.Run(port, func(t *testing.T) {
			res := runWith(t, newFakeServer(), nil, "127.0.0.1", port, "root", "", path)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, "invalid port")
			assert.Nil(t, res.server.queries)
		})
	}
}

func TestConnectionFailure(t *testing.T) {
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n2\n")
	res := runWith(t, newFakeServer(), errors.New("connection refused"), "-d", "compat", "127.0.0.1", "3306", "root", "", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Failed to connect to database")
	assert.Contains(t, res.stderr, "driver: mysql")
	assert.Contains(t, res.stderr, "address: 127.0.0.1:3306")
	assert.Contains(t, res.stderr, "user: root")
	assert.Contains(t, res.stderr, "database: compat")
	assert.Contains(t, res.stderr, "connection refused")
	assert.NotContains(t, res.stdout, "Running test")
}

func TestMissingTestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.test")
	res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Failed to read test file")
	assert.Contains(t, res.stderr, "test file: "+path)
	assert.True(t, res.server.closed)
}

func TestPositionalsTakenAsIs(t *testing.T) {
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n2\n")

	t.Run("password starting with a dash", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "-s3cret", path)
		assert.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "-s3cret", res.server.cfg.Password)
	})

	t.Run("password that looks like an option", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "--driver=postgres", path)
		assert.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "--driver=postgres", res.server.cfg.Password)
		assert.Equal(t, dbconn.MySqlDriver, res.server.cfg.Driver)
	})

	t.Run("extra arguments are ignored", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "", path, "extra", "-x")
		assert.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, []string{"SELECT COUNT(*) FROM t"}, res.server.queries)
	})

	t.Run("driver name in any case", func(t *testing.T) {
		res := runWith(t, newFakeServer(), nil, "--driver", "POSTGRES", "127.0.0.1", "5432", "postgres", "", path)
		assert.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, dbconn.PostgresDriver, res.server.cfg.Driver)
	})
}

func TestPassingSuite(t *testing.T) {
	path := writeTestFile(t, "CREATE TABLE t (a INT, b TEXT)\n\n"+
		"SELECT a, b FROM t ORDER BY a\n1,x\n2,y\n\n"+
		"SELECT COUNT(*) FROM t\n2\n\n"+
		"SELECT NULL, 1\n,1\n\n"+
		"SELECT a FROM t WHERE a = 3\n\n\n")

	res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "secret", path)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, []string{
		"CREATE TABLE t (a INT, b TEXT)",
		"SELECT a, b FROM t ORDER BY a",
		"SELECT COUNT(*) FROM t",
		"SELECT NULL, 1",
		"SELECT a FROM t WHERE a = 3",
	}, res.server.queries)
	assert.Contains(t, res.stdout, "Running test: SELECT a, b FROM t ORDER BY a")
	assert.Contains(t, res.stdout, "Passed all 5 tests")
	assert.True(t, res.server.closed)

	assert.Equal(t, dbconn.Config{
		Driver:   dbconn.MySqlDriver,
		Host:     "127.0.0.1",
		Port:     3306,
		User:     "root",
		Password: "secret",
	}, res.server.cfg)
}

func TestEmptyFilePasses(t *testing.T) {
	path := writeTestFile(t, "")
	res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "", path)
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.server.queries)
}

func TestFailingSuiteStops(t *testing.T) {
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n3\n\n"+sentinel+"\nnever run\n")

	res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "", path)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, []string{"SELECT COUNT(*) FROM t"}, res.server.queries)
	assert.Contains(t, res.stderr, "Expected:\n'3'")
	assert.Contains(t, res.stderr, "Result:\n'2'")
	assert.Contains(t, res.stderr, "FAILED")
	assert.Contains(t, res.stderr, "0 of 2 tests passed")
	assert.NotContains(t, res.stdout, "Passed all")
}

func TestQueryErrorFails(t *testing.T) {
	path := writeTestFile(t, "SELECT b FROM t WHERE a = 1\nx\n\nSELECT broken\n\n"+sentinel+"\nnever run\n")

	res := runWith(t, newFakeServer(), nil, "127.0.0.1", "3306", "root", "", path)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, []string{"SELECT b FROM t WHERE a = 1", "SELECT broken"}, res.server.queries)
	assert.Contains(t, res.stderr, "unknown query")
	assert.Contains(t, res.stderr, "1 of 3 tests passed")
}

func TestOptionsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "compattest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("driver: postgres\ndatabase: fromfile\nparams:\n  sslmode: disable\n"), 0644))
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n2\n")

	res := runWith(t, newFakeServer(), nil, "--config", cfgPath, "--database", "fromflag", "localhost", "5432", "postgres", "pw", path)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, dbconn.Config{
		Driver:   dbconn.PostgresDriver,
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		Database: "fromflag",
		Params:   map[string]string{"sslmode": "disable"},
	}, res.server.cfg)
}

func TestBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "compattest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("not_a_field: 1\n"), 0644))
	path := writeTestFile(t, "SELECT COUNT(*) FROM t\n2\n")

	res := runWith(t, newFakeServer(), nil, "-c", cfgPath, "localhost", "3306", "root", "", path)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Invalid arguments")
	assert.Nil(t, res.server.queries)
}

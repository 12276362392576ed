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

// compattest runs a file of queries against a MySQL or Postgres compatible server and checks that every query returns
// exactly the rows recorded in the file. It stops at the first query that doesn't, and exits 1.
//
// Test files are plain text. Each test is a query on one line followed by its expected rows, one per line, with
// columns separated by commas. A blank line ends the test:
//
//	SELECT a, b FROM t ORDER BY a
//	1,x
//	2,y
//
//	SELECT COUNT(*) FROM t
//	2
//
// There is no quoting or escaping, so expected values can't contain commas or newlines. NULL is written as an empty
// field.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dolt/compattest/cmd/compattest/cli"
	"github.com/dolthub/dolt/compattest/libraries/compat/config"
	"github.com/dolthub/dolt/compattest/libraries/compat/dbconn"
	"github.com/dolthub/dolt/compattest/libraries/compat/runner"
	"github.com/dolthub/dolt/compattest/libraries/compat/suite"
	"github.com/dolthub/dolt/compattest/libraries/errhand"
	"github.com/dolthub/dolt/compattest/libraries/utils/argparser"
)

const (
	commandName = "compattest"

	driverParam   = "driver"
	databaseParam = "database"
	configParam   = "config"
	verboseFlag   = "verbose"
	noColorFlag   = "no-color"

	numPositionalArgs = 5
)

// openPool is replaced in tests.
var openPool = dbconn.Open

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func newArgParser() *argparser.ArgParser {
	ap := argparser.NewArgParserWithMaxArgs(commandName, -1)
	ap.OptionsFirst = true
	ap.ArgListHelp = [][2]string{
		{"host", "Host name or IP address of the server."},
		{"port", "Port the server listens on."},
		{"user", "User to connect as."},
		{"password", "Password of the user. Use \"\" for none."},
		{"testFile", "File of queries and expected results."},
	}
	ap.SupportsValidatedString(driverParam, "", "driver", fmt.Sprintf("Client library used to connect. %s compares values exactly as the server sends them, %s reads them through database/sql. Defaults to %s.",
		dbconn.MySqlDriver, dbconn.GoSqlDriver, dbconn.DefaultDriver),
		argparser.ValidatorFromStrList(driverParam, dbconn.Drivers()))
	ap.SupportsString(databaseParam, "d", "database", "Database to connect to. Defaults to none for mysql and to postgres for postgres.")
	ap.SupportsString(configParam, "c", "file", "YAML file with connection settings. Command line values take precedence.")
	ap.SupportsFlag(verboseFlag, "v", "Log debug output and print a diff of the first mismatching value.")
	ap.SupportsFlag(noColorFlag, "", "Disable colored output.")
	return ap
}

func printUsage(w io.Writer, ap *argparser.ArgParser) {
	fmt.Fprintf(w, "Usage: %s [options] <host> <port> <user> <password> <testFile>\n\n", commandName)
	fmt.Fprintf(w, "Arguments:\n%s\nOptions:\n%s\nOptions must come before <host>. Everything after it is taken as is, so a\npassword may start with \"-\".\n",
		ap.ArgsUsage(), ap.OptionsUsage())
}

func run(ctx context.Context, args []string) int {
	cli.InitColor(config.ColorAuto)

	ap := newArgParser()
	apr, err := ap.Parse(args)
	if err == argparser.ErrHelp {
		printUsage(cli.CliOut, ap)
		return 0
	} else if err != nil {
		cli.PrintErrln(err)
		printUsage(cli.CliErr, ap)
		return 1
	}

	if apr.NArg() < numPositionalArgs {
		printUsage(cli.CliErr, ap)
		return 1
	}

	verbose := apr.Contains(verboseFlag)
	cfg, err := buildConfig(apr)
	if err != nil {
		return printError(errhand.BuildDError("Invalid arguments").
			AddDetails("run %s --help for usage", commandName).
			AddCause(err).Build())
	}

	cli.InitColor(cfg.Color)
	lvl, _ := cfg.Level()
	cli.InitLogging(lvl)

	logger := logrus.WithField("run_id", uuid.New().String()).WithField("test_file", cfg.TestFile)
	if extra := apr.Args()[numPositionalArgs:]; len(extra) > 0 {
		logger.Debugf("ignoring %d extra arguments", len(extra))
	}

	connCfg := cfg.ConnConfig()
	logger.WithField("driver", connCfg.Driver).Debugf("connecting to %s", connCfg.Addr())

	pool, err := openPool(ctx, connCfg)
	if err != nil {
		return printError(connError("Failed to connect to database", connCfg, err))
	}
	defer pool.Close()

	conn, err := pool.Conn(ctx)
	if err != nil {
		return printError(connError("Failed to get connection from pool", connCfg, err))
	}
	defer conn.Close()

	ts, err := suite.ParseFile(cfg.TestFile)
	if err != nil {
		return printError(errhand.BuildDError("Failed to read test file").
			AddDetails("test file: %s", cfg.TestFile).
			AddCause(err).Build())
	}
	logger.Debugf("loaded %d tests", ts.Len())

	executor := runner.NewExecutor(cli.CliOut, cli.CliErr)
	executor.Verbose = verbose

	start := time.Now()
	passed, err := executor.RunSuite(ctx, conn, ts)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		var tf *runner.TestFailure
		if errors.As(err, &tf) {
			logger.WithField("line", tf.Case.LineNum).Debug(tf.Err.Error())
			cli.PrintErrln(color.RedString("FAILED %s:%d: %s", ts.Path, tf.Case.LineNum, tf.Case.Query))
		} else {
			cli.PrintErrln(color.RedString("FAILED: %v", err))
		}
		cli.PrintErrf("%s of %s tests passed\n", humanize.Comma(int64(passed)), humanize.Comma(int64(ts.Len())))
		return 1
	}

	cli.Println(color.GreenString("Passed all %s tests in %v", humanize.Comma(int64(passed)), elapsed))
	return 0
}

// buildConfig merges the optional config file with the command line. The command line wins.
func buildConfig(apr *argparser.ArgParseResults) (*config.Config, error) {
	cfg := config.New()
	if path, ok := apr.GetValue(configParam); ok {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	cfg.Host = apr.Arg(0)
	if err := cfg.SetPort(apr.Arg(1)); err != nil {
		return nil, err
	}
	cfg.User = apr.Arg(2)
	cfg.Password = apr.Arg(3)
	cfg.TestFile = apr.Arg(4)

	if driver, ok := apr.GetValue(driverParam); ok {
		cfg.SetDriver(driver)
	}
	if db, ok := apr.GetValue(databaseParam); ok {
		cfg.Database = db
	}
	if apr.Contains(verboseFlag) {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if apr.Contains(noColorFlag) {
		cfg.Color = config.ColorNever
	}

	return cfg, cfg.Validate()
}

func connError(msg string, connCfg dbconn.Config, cause error) errhand.VerboseError {
	builder := errhand.BuildDError(msg).
		AddDetails("driver: %s", connCfg.Driver).
		AddDetails("address: %s", connCfg.Addr()).
		AddDetails("user: %s", connCfg.User)
	if connCfg.Database != "" {
		builder.AddDetails("database: %s", connCfg.Database)
	}
	return builder.AddCause(cause).Build()
}

func printError(verr errhand.VerboseError) int {
	cli.PrintErrln(verr.Verbose())
	return 1
}

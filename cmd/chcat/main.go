// Command chcat runs a single query against a ClickHouse server and
// streams the TSV result to stdout, in the spirit of the
// clickhouse-client `--format TSV` CLI mode.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	ch "github.com/vkcom/kittenhouse-client"
	"github.com/vkcom/kittenhouse-client/chhttp"
)

var argv struct {
	addr     string
	database string
	user     string
	password string
	query    string
	timeout  time.Duration
	bulk     bool
	debug    bool
}

func init() {
	flag.StringVar(&argv.addr, "addr", "http://127.0.0.1:8123/", "clickhouse HTTP endpoint")
	flag.StringVar(&argv.database, "db", "default", "clickhouse database")
	flag.StringVar(&argv.user, "user", "", "clickhouse user")
	flag.StringVar(&argv.password, "password", "", "clickhouse password")
	flag.StringVar(&argv.query, "query", "", "SQL to run; if empty, read from stdin")
	flag.DurationVar(&argv.timeout, "timeout", 30*time.Second, "query timeout")
	flag.BoolVar(&argv.bulk, "bulk", false, "benchmark the fasthttp bulk path with SELECT 1 instead of running -query")
	flag.BoolVar(&argv.debug, "debug", false, "pass true to ch.SetDebug")
	flag.Parse()
}

func main() {
	ch.SetDebug(argv.debug)

	client := ch.New(argv.addr).WithDatabase(argv.database)
	if argv.user != "" {
		client = client.WithAuth(argv.user, argv.password)
	}

	if argv.bulk {
		runBulkBenchmark()
		return
	}

	query := argv.query
	if query == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("chcat: read stdin: %v", err)
		}
		query = strings.TrimSpace(string(data))
	}

	ctx, cancel := context.WithTimeout(context.Background(), argv.timeout)
	defer cancel()

	body, err := client.QueryRaw(ctx, query, "TSV")
	if err != nil {
		log.Fatalf("chcat: query: %v", err)
	}
	defer body.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if _, err := io.Copy(out, body); err != nil {
		log.Fatalf("chcat: %v", err)
	}
}

// runBulkBenchmark exercises the fasthttp-backed BulkClient rather than
// the tuned net/http path chcat otherwise uses, so the two executors can
// be compared under load.
func runBulkBenchmark() {
	hostPort := strings.TrimPrefix(strings.TrimPrefix(argv.addr, "https://"), "http://")
	hostPort = strings.TrimSuffix(hostPort, "/")

	bc := chhttp.NewBulkClient(hostPort, strings.HasPrefix(argv.addr, "https://"))

	start := time.Now()
	body, err := bc.Post(strings.TrimSuffix(argv.addr, "/")+"/?query=SELECT+1", nil)
	if err != nil {
		log.Fatalf("chcat: bulk post: %v", err)
	}
	fmt.Printf("bulk post took %s, response: %s", time.Since(start), body)
}

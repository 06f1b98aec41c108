// Command chproxy exposes a small REST front end over a ch.Client: a
// GET /query endpoint for SELECTs and a POST /insert endpoint for
// RowBinary bulk loads, mirroring the shape of the reference daemon's
// own HTTP surface but backed by this package's HTTP executor instead of
// bespoke in-memory/persistent buffering.
package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	ch "github.com/vkcom/kittenhouse-client"
)

var argv struct {
	listen   string
	chAddr   string
	database string
	user     string
	password string
}

func init() {
	flag.StringVar(&argv.listen, "listen", "0.0.0.0:13338", "listening host:port")
	flag.StringVar(&argv.chAddr, "ch-addr", "http://127.0.0.1:8123/", "clickhouse HTTP endpoint")
	flag.StringVar(&argv.database, "db", "default", "clickhouse database")
	flag.StringVar(&argv.user, "ch-user", "", "clickhouse user")
	flag.StringVar(&argv.password, "ch-password", "", "clickhouse password")
	flag.Parse()
}

type server struct {
	client *ch.Client
}

func main() {
	client := ch.New(argv.chAddr).WithDatabase(argv.database)
	if argv.user != "" {
		client = client.WithAuth(argv.user, argv.password)
	}

	srv := &server{client: client}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/query", srv.handleQuery)
	r.Post("/insert", srv.handleInsert)
	r.Get("/ping", srv.handlePing)

	log.Printf("chproxy: listening on %s, forwarding to %s", argv.listen, argv.chAddr)
	log.Fatal(http.ListenAndServe(argv.listen, r))
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "GET-parameter `query` is missing", http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "TSV"
	}

	body, err := s.client.QueryRaw(r.Context(), query, format)
	if err != nil {
		writeClientError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.Copy(w, body); err != nil {
		log.Printf("chproxy: stream query response: %v", err)
	}
}

func (s *server) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		http.Error(w, "GET-parameter `table` is missing", http.StatusBadRequest)
		return
	}

	columns := r.URL.Query()["column"]
	if len(columns) == 0 {
		http.Error(w, "at least one `column` parameter is required", http.StatusBadRequest)
		return
	}

	ins, err := s.client.Insert(r.Context(), table, columns)
	if err != nil {
		writeClientError(w, err)
		return
	}

	n, err := io.Copy(rowWriter{ins}, r.Body)
	if err != nil {
		ins.Abort()
		writeClientError(w, err)
		return
	}

	if err := ins.End(); err != nil {
		writeClientError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strconv.FormatInt(n, 10) + " bytes accepted\n"))
}

func (s *server) handlePing(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Ping(r.Context()); err != nil {
		writeClientError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeClientError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if chErr, ok := err.(*ch.Error); ok && chErr.Kind == ch.BadResponse {
		status = chErr.Status
	}
	http.Error(w, err.Error(), status)
}

// rowWriter adapts an already-established Insert body stream to io.Writer
// so a raw RowBinary request body can be copied straight through instead
// of being decoded into a Row and re-encoded.
type rowWriter struct {
	ins *ch.Insert
}

func (rw rowWriter) Write(p []byte) (int, error) {
	return rw.ins.WriteRaw(p)
}

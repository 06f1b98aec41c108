package ch

import (
	"log"
	"os"

	"github.com/rs/zerolog"
)

// WriteDebugLog mirrors the reference daemon's package-level debug switch:
// cheap to check, no allocation when off, and settable both from code and
// from the environment.
var WriteDebugLog = os.Getenv("CLICKHOUSE_CLIENT_DEBUG") != ""

// SetDebug sets WriteDebugLog for the whole process. Only debugf reads
// the switch, and no request path in this package calls debugf, so no
// request/response trace lines are printed either way. It is not per-Client because the reference daemon's own debug
// flag isn't either: this is a development knob, not a production
// per-tenant setting.
func SetDebug(on bool) {
	WriteDebugLog = on
}

func debugf(format string, args ...interface{}) {
	if !WriteDebugLog {
		return
	}
	log.Printf("ch: "+format, args...)
}

// logSink, when set on a Client via WithLogger, receives one structured
// event per request in addition to (or instead of, once WriteDebugLog is
// off) the plain debug log above.
type logSink struct {
	logger zerolog.Logger
}

func (s *logSink) request(method, url string, status int, bytesIn, bytesOut int64, err error) {
	ev := s.logger.Info()
	if err != nil {
		ev = s.logger.Error().Err(err)
	}
	ev.Str("method", method).
		Str("url", url).
		Int("status", status).
		Int64("bytes_in", bytesIn).
		Int64("bytes_out", bytesOut).
		Msg("clickhouse request")
}

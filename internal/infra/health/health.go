package health

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Marker records process liveness by stamping a file with the current Unix
// timestamp. External monitors alert when the stamp goes stale.
type Marker struct {
	path string
	log  *logrus.Entry
}

func NewMarker(path string, log *logrus.Entry) *Marker {
	return &Marker{path: path, log: log}
}

// Mark writes the current timestamp. A failure is logged and swallowed:
// liveness reporting must never take the updater down.
func (m *Marker) Mark() {
	stamp := strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.WriteFile(m.path, []byte(stamp), 0o644); err != nil {
		m.log.Warnf("could not write health check file: %v", err)
	}
}

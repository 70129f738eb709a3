package registerroom

import (
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

// Trace logs every dispatch on s at debug level. With trace level enabled
// the whole resulting snapshot is dumped too.
func Trace(s *Store, fields log.Fields) (stop func()) {
	entry := log.WithFields(fields)
	return s.Subscribe(func(action string, prev, next State) {
		if !log.IsLevelEnabled(log.DebugLevel) {
			return
		}
		e := entry.WithField("action", action)
		if log.IsLevelEnabled(log.TraceLevel) {
			e = e.WithField("dump", spew.Sdump(next))
		}
		e.Debug("form state updated")
	})
}

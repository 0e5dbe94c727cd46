package logsvc

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/admitdesk/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	conf := &core.Config{Env: "TEST", AppName: "AdmitDesk", Debug: true}
	local := NewLocalLogger(conf)
	local.SetOutput(buf)
	local.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := NewRollbarLogger(logrus.NewEntry(local), conf)
	l.Enable(false)
	return l
}

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Warn("fetching leads page 2", errors.New("connection refused"), core.Session{Token: "secret", Email: "meena@school.test"})
	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, `msg="fetching leads page 2"`)
	assert.Contains(t, out, `error="connection refused"`)
	assert.Contains(t, out, "user=meena@school.test")
	assert.Contains(t, out, "env=TEST")
	assert.NotContains(t, out, "secret")

	buf.Reset()
	l.Debug("view mounted", map[string]interface{}{"view": "v1"})
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "view=v1")
}

func TestNewLocalLogger_level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLocalLogger(&core.Config{Debug: true}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLocalLogger(&core.Config{}).GetLevel())
}

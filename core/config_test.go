package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestNewConfig_defaults(t *testing.T) {
	setEnv(t, map[string]string{"ENV": "QA"})

	conf, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "QA", conf.Env)
	assert.False(t, conf.TestMode)
	assert.Equal(t, 10, conf.Leads.PageSize)
	assert.Equal(t, time.Duration(0), conf.Backend.Timeout)
	assert.Equal(t, ":8000", conf.Server.Address)
	assert.Equal(t, 30*time.Minute, conf.Server.ViewIdleTimeout)
}

func TestNewConfig_env(t *testing.T) {
	setEnv(t, map[string]string{
		"ENV":                  "test",
		"TEST_LEADS_PAGESIZE":  "25",
		"TEST_BACKEND_BASEURL": "https://crm.example.com/",
		"TEST_BACKEND_TIMEOUT": "3s",
		"TEST_DEBUG":           "false",
	})

	conf, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.False(t, conf.Debug)
	assert.Equal(t, 25, conf.Leads.PageSize)
	assert.Equal(t, "https://crm.example.com", conf.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, conf.Backend.Timeout)
}

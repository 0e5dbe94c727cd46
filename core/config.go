package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		ViewIdleTimeout    time.Duration
	}

	BackendConfig struct {
		BaseURL string
		Timeout time.Duration // 0: no client-side timeout
	}

	LeadsConfig struct {
		PageSize int
	}

	SessionConfig struct {
		Dir       string
		RedisAddr string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string

		Server  ServerConfig
		Backend BackendConfig
		Leads   LeadsConfig
		Session SessionConfig
	}
)

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "AdmitDesk")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "k8#t2v!wq$0r-admitdesk-dev-only-7mz&c1p9x")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("server.viewIdleTimeout", 30*time.Minute)

	v.SetDefault("backend.baseURL", "http://localhost:5000")
	v.SetDefault("backend.timeout", time.Duration(0))

	v.SetDefault("leads.pageSize", 10)

	v.SetDefault("session.dir", defaultSessionDir())
	v.SetDefault("session.redisAddr", "")
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".admitdesk"
	}
	return filepath.Join(home, ".admitdesk")
}

// NewConfig loads the app configuration from defaults, the optional `config/.env.<env>` file
// and the environment (variables are prefixed with the env name, e.g. `DEV_BACKEND_BASEURL`).
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			ViewIdleTimeout:    v.GetDuration("server.viewIdleTimeout"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("backend.baseURL"), "/"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Leads: LeadsConfig{
			PageSize: v.GetInt("leads.pageSize"),
		},
		Session: SessionConfig{
			Dir:       v.GetString("session.dir"),
			RedisAddr: v.GetString("session.redisAddr"),
		},
	}, nil
}

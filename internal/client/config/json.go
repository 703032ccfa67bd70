package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatauth/internal/flagx"
	"github.com/dmitrijs2005/chatauth/internal/timex"
)

// JsonConfig is the on-disk shape of the client configuration file.
// request_timeout accepts "15s" or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointURL string          `json:"server_endpoint_url"`
	SessionDBPath     string          `json:"session_db_path"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
// Keys missing from the file keep their current values. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointURL != "" {
		cfg.ServerEndpointURL = jc.ServerEndpointURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

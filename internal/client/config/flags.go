package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/chatauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the chat server
//	-f string   session database file
//	-r int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "chat server URL")
	fs.StringVar(&cfg.SessionDBPath, "f", cfg.SessionDBPath, "session database file")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}

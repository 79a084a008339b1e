package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-u string   directory query endpoint URL
//	-t int      session token validity, minutes
//	-o int      directory call timeout, seconds
//
// Secrets deliberately have no flags; they would show up in process
// listings. The function first filters os.Args to only the flags it
// recognizes using flagx.FilterArgs, avoiding collisions with other
// components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DirectoryURL, "u", config.DirectoryURL, "directory query endpoint URL")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	directoryTimeout := fs.Int("o", int(config.DirectoryTimeout.Seconds()), "directory_timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
	config.DirectoryTimeout = time.Duration(*directoryTimeout) * time.Second
}

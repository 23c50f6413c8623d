package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iov-one/trustvault"
)

func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", env("TVAULT_HOME", os.Getenv("HOME")+"/.tvault"),
		"Directory holding the configuration and the state. You can use TVAULT_HOME environment variable to set it.")
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("TVAULT_PRIV_KEY", os.Getenv("HOME")+"/.tvault.priv.key"),
		"Path to the private key file that transaction should be signed with. You can use TVAULT_PRIV_KEY environment variable to set it.")
}

// flIdentity returns a value that is being initialized with given default
// value and optionally overwritten by a command line argument if provided.
// If given value cannot be deserialized, process is terminated.
func flIdentity(fl *flag.FlagSet, name, defaultVal, usage string) *trustvault.Identity {
	var id trustvault.Identity
	if defaultVal != "" {
		var err error
		id, err = trustvault.ParseIdentity(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q identity flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&id, name, usage)
	return &id
}

// parseExpiry accepts a unix timestamp in seconds, an RFC3339 time or a
// duration relative to now prefixed with "+".
func parseExpiry(raw string, now trustvault.UnixTime) (trustvault.UnixTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("expiry is required")
	}
	if strings.HasPrefix(raw, "+") {
		d, err := time.ParseDuration(raw[1:])
		if err != nil {
			return 0, fmt.Errorf("invalid relative expiry: %s", err)
		}
		return now.Add(d), nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return trustvault.UnixTime(n), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: want unix seconds, RFC3339 or +duration", raw)
	}
	return trustvault.AsUnixTime(t), nil
}

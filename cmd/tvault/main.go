package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/trustvault"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It parses the arguments
// itself using the flag package and reads and writes only to provided input
// and output. Logs go to stderr.
//
// State lives in a local data directory (see the init command). Every
// transaction command builds, signs and executes a single transition and
// commits the result, for example:
//
//	$ tvault create -key payer.key -payee 3yZe7d... -amount 100 -expiry +24h
//	$ tvault release -key payee.key -escrow 8Fmx2...
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"balance":  cmdBalance,
	"close":    cmdClose,
	"create":   cmdCreate,
	"identity": cmdIdentity,
	"init":     cmdInit,
	"keygen":   cmdKeygen,
	"refund":   cmdRefund,
	"release":  cmdRelease,
	"show":     cmdShow,
	"version":  cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line tool for the trustvault escrow ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, trustvault.Version())
	return err
}

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/trustvault/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the state from a genesis file.

The genesis file declares the chain id and the application state: initial
balances under "cash" and optionally the escrow configuration under
"conf.escrow". The chain id is stored in the configuration file and used to
sign all transactions. A state can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	conf, err := loadConfig(*homeFl)
	if err != nil {
		return err
	}
	if conf.ChainID != "" {
		return fmt.Errorf("home %q is already initialized for chain %q", *homeFl, conf.ChainID)
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.close()

	if err := n.engine.InitChain(gen); err != nil {
		return err
	}
	cid, err := n.engine.Commit()
	if err != nil {
		return err
	}

	conf.ChainID = gen.ChainID
	if err := writeConfig(*homeFl, *conf); err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s initialized at version %d\n", gen.ChainID, cid.Version)
	return err
}

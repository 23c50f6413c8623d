package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/x/escrow"
	"github.com/iov-one/trustvault/x/sigs"
)

var systemClock trustvault.Clock = trustvault.SystemClock{}

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Lock funds of the signer in a new escrow.

The payee can release the funds at any time. The payer can take them back
once the expiry has passed. When no escrow identity is given a random one is
used. The escrow identity is printed.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flIdentity(fl, "escrow", "", "Identity of the new escrow. Random if not given.")
		payeeFl  = flIdentity(fl, "payee", "", "Identity of the recipient.")
		amountFl = fl.Uint64("amount", 0, "Amount to lock.")
		expiryFl = fl.String("expiry", "", "Time after which the payer can refund, as unix seconds, RFC3339 or a +duration relative to now.")
	)
	fl.Parse(args)

	expiry, err := parseExpiry(*expiryFl, systemClock.Now())
	if err != nil {
		return err
	}
	id := *escrowFl
	if id.IsZero() {
		if id, err = trustvault.RandomIdentity(); err != nil {
			return err
		}
	}
	msg := escrow.NewCreateMsg(id, *payeeFl, *amountFl, expiry)
	if err := deliver(*homeFl, *keyFl, msg); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func cmdRelease(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Release the funds of an escrow to the payee. Must be signed by the payee.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flIdentity(fl, "escrow", "", "Identity of the escrow.")
	)
	fl.Parse(args)

	return deliver(*homeFl, *keyFl, escrow.NewReleaseMsg(*escrowFl))
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return the funds of an expired escrow to the payer. Must be signed by the
payer.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flIdentity(fl, "escrow", "", "Identity of the escrow.")
	)
	fl.Parse(args)

	return deliver(*homeFl, *keyFl, escrow.NewRefundMsg(*escrowFl))
}

func cmdClose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Delete a released or refunded escrow. Must be signed by the payer. The
identity of a closed escrow cannot be used again.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		keyFl    = flKey(fl)
		escrowFl = flIdentity(fl, "escrow", "", "Identity of the escrow.")
	)
	fl.Parse(args)

	return deliver(*homeFl, *keyFl, &escrow.CloseMsg{EscrowID: *escrowFl})
}

// deliver signs msg with the key, executes it and commits the state.
func deliver(home, keyPath string, msg trustvault.Msg) error {
	priv, err := readKey(keyPath)
	if err != nil {
		return err
	}
	n, err := openNode(home)
	if err != nil {
		return err
	}
	defer n.close()

	if n.conf.ChainID == "" {
		return fmt.Errorf("home %q is not initialized, run init first", home)
	}
	tx, err := sigs.NewTx(n.conf.ChainID, msg)
	if err != nil {
		return err
	}
	if err := tx.Sign(priv); err != nil {
		return err
	}
	if _, err := n.engine.Deliver(context.Background(), tx); err != nil {
		return err
	}
	_, err = n.engine.Commit()
	return err
}

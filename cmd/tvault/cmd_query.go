package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/x/escrow"
)

// escrowView is the printed form of an escrow record. A closed record has
// no content left, only its identity, state and vault.
type escrowView struct {
	ID trustvault.Identity `json:"id"`
	*RecordView
	State        string              `json:"state"`
	Vault        trustvault.Identity `json:"vault"`
	VaultBalance uint64              `json:"vault_balance"`
}

// RecordView is the content of a record that was not closed.
type RecordView struct {
	Payer    trustvault.Identity `json:"payer"`
	Payee    trustvault.Identity `json:"payee"`
	Amount   uint64              `json:"amount"`
	Expiry   trustvault.UnixTime `json:"expiry"`
	Released bool                `json:"released"`
}

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print an escrow record, its state and the balance of its vault as JSON.
The state of a closed record is "closed".
`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flIdentity(fl, "escrow", "", "Identity of the escrow.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.close()

	view := escrowView{
		ID:    *escrowFl,
		Vault: escrow.VaultIdentity(*escrowFl),
	}
	switch e, state, err := n.engine.Escrow(*escrowFl); {
	case err == nil:
		view.State = state.String()
		view.RecordView = &RecordView{
			Payer:    e.Payer(),
			Payee:    e.Payee(),
			Amount:   e.Amount(),
			Expiry:   e.Expiry(),
			Released: e.Released(),
		}
	case errors.ErrNotFound.Is(err):
		closed, cerr := n.engine.IsClosed(*escrowFl)
		if cerr != nil {
			return cerr
		}
		if !closed {
			return err
		}
		view.State = "closed"
	default:
		return err
	}
	if view.VaultBalance, err = n.engine.VaultBalance(*escrowFl); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the balance of an identity. The identity of the private key is used
when no identity is given.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = flHome(fl)
		keyFl  = flKey(fl)
		idFl   = flIdentity(fl, "id", "", "Identity to print the balance of.")
	)
	fl.Parse(args)

	id := *idFl
	if id.IsZero() {
		priv, err := readKey(*keyFl)
		if err != nil {
			return err
		}
		if id, err = keyIdentity(priv); err != nil {
			return err
		}
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.close()

	b, err := n.engine.Balance(id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, b)
	return err
}

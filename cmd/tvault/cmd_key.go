package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/trustvault"
	"golang.org/x/crypto/ed25519"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created and the identity of the key is printed. This command fails if the
private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite a key. The user must delete it first.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("cannot generate ed25519 key: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}

	id, err := trustvault.NewIdentity(pub)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func cmdIdentity(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the base58 identity associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
	)
	fl.Parse(args)

	priv, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	id, err := keyIdentity(priv)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, id)
	return err
}

func readKey(path string) (ed25519.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length: %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

func keyIdentity(priv ed25519.PrivateKey) (trustvault.Identity, error) {
	return trustvault.NewIdentity(priv.Public().(ed25519.PublicKey))
}

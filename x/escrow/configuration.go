package escrow

import (
	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/iov-one/trustvault/gconf"
)

const confPkg = "escrow"

// Configuration holds the chain wide settings of the escrow module.
type Configuration struct {
	// MinAmount is the smallest amount that can be locked. It is never
	// below one.
	MinAmount uint64 `json:"min_amount" msgpack:"min_amount"`
	// MaxLockPeriod limits in seconds how far after the current time the
	// expiry can be set. Zero means no limit.
	MaxLockPeriod int64 `json:"max_lock_period" msgpack:"max_lock_period"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was stored.
func DefaultConfiguration() Configuration {
	return Configuration{MinAmount: 1}
}

func (c *Configuration) Validate() error {
	if c.MinAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "min amount must be at least 1")
	}
	if c.MaxLockPeriod < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative max lock period")
	}
	return nil
}

// loadConf returns the stored configuration or the default one.
func loadConf(db trustvault.ReadOnlyKVStore) (Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

// SaveConfiguration validates and stores the configuration.
func SaveConfiguration(db trustvault.KVStore, conf Configuration) error {
	return gconf.Save(db, confPkg, &conf)
}

// Initializer fulfils the Initializer interface to load the escrow
// configuration from the genesis file. The configuration is optional.
type Initializer struct{}

var _ trustvault.Initializer = Initializer{}

// FromGenesis stores opts["conf"]["escrow"] if present. Fields missing from
// genesis take their default value.
func (Initializer) FromGenesis(opts trustvault.Options, db trustvault.KVStore) error {
	conf := DefaultConfiguration()
	return gconf.InitConfig(db, opts, confPkg, &conf)
}

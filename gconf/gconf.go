package gconf

import (
	"bytes"
	"encoding/json"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/vmihailenco/msgpack"
)

// Configuration is implemented by the configuration of a package. It is
// serialized with msgpack, so its fields need msgpack tags, and json tags
// to be read from genesis.
type Configuration interface {
	Validate() error
}

// Key returns the database key of the configuration of given package.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates conf and stores it as the configuration of pkg,
// replacing any previous one.
func Save(db trustvault.SetDeleter, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := msgpack.Marshal(conf)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "encode %s configuration: %s", pkg, err)
	}
	return db.Set(Key(pkg), raw)
}

// Load reads the configuration of pkg into dst. When none was stored dst is
// left untouched, so a dst holding the defaults of the package yields those
// defaults. Stored fields override the values of dst. The result must be
// valid, a stored configuration that is not fails with ErrInvalidState.
func Load(db trustvault.ReadOnlyKVStore, pkg string, dst Configuration) error {
	raw, err := db.Get(Key(pkg))
	if err != nil {
		return errors.Wrapf(err, "read %s configuration", pkg)
	}
	if raw == nil {
		return nil
	}
	if err := msgpack.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "decode %s configuration: %s", pkg, err)
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "stored %s configuration: %s", pkg, err)
	}
	return nil
}

// InitConfig stores the genesis section conf.<pkg> as the configuration of
// pkg. The section is optional; without it nothing is stored and dst is
// left untouched. Fields unknown to dst are rejected.
func InitConfig(db trustvault.SetDeleter, opts trustvault.Options, pkg string, dst Configuration) error {
	var sections trustvault.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis conf: %s", err)
	}
	raw := sections[pkg]
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "genesis %s configuration: %s", pkg, err)
	}
	return Save(db, pkg, dst)
}

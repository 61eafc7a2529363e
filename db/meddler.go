package db

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	sqlite "github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"
)

// init registers tags to be used to read/write from SQL DBs using meddler
func init() {
	meddler.Default = meddler.SQLite
	meddler.Register("bigint", BigIntMeddler{})
	meddler.Register("hash", HashMeddler{})
	meddler.Register("address", AddressMeddler{})
}

// SQLiteErr extracts the sqlite driver error from err, unwrapping meddler errors
func SQLiteErr(err error) (*sqlite.Error, bool) {
	sqliteErr := &sqlite.Error{}
	if ok := errors.As(err, sqliteErr); ok {
		return sqliteErr, true
	}
	if driverErr, ok := meddler.DriverErr(err); ok {
		return sqliteErr, errors.As(driverErr, sqliteErr)
	}
	return sqliteErr, false
}

// SlicePtrsToSlice converts any []*Foo to []Foo
func SlicePtrsToSlice(slice interface{}) interface{} {
	v := reflect.ValueOf(slice)
	vLen := v.Len()
	typ := v.Type().Elem().Elem()
	res := reflect.MakeSlice(reflect.SliceOf(typ), vLen, vLen)
	for i := 0; i < vLen; i++ {
		res.Index(i).Set(v.Index(i).Elem())
	}
	return res.Interface()
}

// scannedString is the PostRead side shared by the text encoded meddlers
func scannedString(name string, scanTarget interface{}) (string, error) {
	ptr, ok := scanTarget.(*string)
	if !ok {
		return "", errors.New("scanTarget is not *string")
	}
	if ptr == nil {
		return "", fmt.Errorf("%s.PostRead: nil pointer", name)
	}
	return *ptr, nil
}

// BigIntMeddler stores *big.Int as a decimal string, so values above int64 survive
type BigIntMeddler struct{}

// PreRead implements meddler.Meddler
func (b BigIntMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(string), nil
}

// PostRead implements meddler.Meddler
func (b BigIntMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	raw, err := scannedString("BigIntMeddler", scanTarget)
	if err != nil {
		return err
	}
	field, ok := fieldPtr.(**big.Int)
	if !ok {
		return errors.New("fieldPtr is not *big.Int")
	}
	*field, ok = new(big.Int).SetString(raw, 10) //nolint:mnd
	if !ok {
		return fmt.Errorf("big.Int.SetString failed on \"%v\"", raw)
	}
	return nil
}

// PreWrite implements meddler.Meddler. nil is stored as zero
func (b BigIntMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	field, ok := fieldPtr.(*big.Int)
	if !ok {
		return nil, errors.New("fieldPtr is not *big.Int")
	}
	if field == nil {
		return "0", nil
	}
	return field.String(), nil
}

// HashMeddler stores common.Hash as 0x prefixed hex
type HashMeddler struct{}

// PreRead implements meddler.Meddler
func (b HashMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(string), nil
}

// PostRead implements meddler.Meddler
func (b HashMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	raw, err := scannedString("HashMeddler", scanTarget)
	if err != nil {
		return err
	}
	field, ok := fieldPtr.(*common.Hash)
	if !ok {
		return errors.New("fieldPtr is not common.Hash")
	}
	*field = common.HexToHash(raw)
	return nil
}

// PreWrite implements meddler.Meddler
func (b HashMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	field, ok := fieldPtr.(common.Hash)
	if !ok {
		return nil, errors.New("fieldPtr is not common.Hash")
	}
	return field.Hex(), nil
}

// AddressMeddler stores common.Address as checksummed hex
type AddressMeddler struct{}

// PreRead implements meddler.Meddler
func (b AddressMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(string), nil
}

// PostRead implements meddler.Meddler
func (b AddressMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	raw, err := scannedString("AddressMeddler", scanTarget)
	if err != nil {
		return err
	}
	field, ok := fieldPtr.(*common.Address)
	if !ok {
		return errors.New("fieldPtr is not common.Address")
	}
	*field = common.HexToAddress(raw)
	return nil
}

// PreWrite implements meddler.Meddler
func (b AddressMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	field, ok := fieldPtr.(common.Address)
	if !ok {
		return nil, errors.New("fieldPtr is not common.Address")
	}
	return field.Hex(), nil
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/locator-finder/pkg/core"
)

// Capabilities are the desired capabilities sent when opening a session.
type Capabilities map[string]interface{}

// Devices maps a device name to its capabilities.
type Devices map[string]Capabilities

// Account is one test login.
type Account struct {
	Email    string `json:"email" yaml:"email" validate:"required,email"`
	Password string `json:"password" yaml:"password" validate:"required"`
}

// Accounts maps an account name to its login.
type Accounts map[string]Account

// LoadDevices reads a devices store. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func LoadDevices(path string) (Devices, error) {
	var devices Devices
	if err := loadStore(path, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Lookup returns the capabilities of the named device.
func (d Devices) Lookup(name string) (Capabilities, error) {
	caps, ok := d[name]
	if !ok {
		return nil, notFound("device", name)
	}
	return caps, nil
}

// Names returns the device names in sorted order.
func (d Devices) Names() []string {
	return sortedKeys(d)
}

// LoadAccounts reads an accounts store.
func LoadAccounts(path string) (Accounts, error) {
	var accounts Accounts
	if err := loadStore(path, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Lookup returns the named account. A record missing its email or password
// fails with core.ErrInvalidRecord.
func (a Accounts) Lookup(name string) (Account, error) {
	acct, ok := a[name]
	if !ok {
		return Account{}, notFound("account", name)
	}
	if err := validate.Struct(&acct); err != nil {
		return Account{}, core.ErrInvalidRecord.WithCause(err).
			WithDetails(map[string]interface{}{"key": name})
	}
	return acct, nil
}

// Credentials returns the email and password of the named account.
func (a Accounts) Credentials(name string) (email, password string, err error) {
	acct, err := a.Lookup(name)
	if err != nil {
		return "", "", err
	}
	return acct.Email, acct.Password, nil
}

// Names returns the account names in sorted order.
func (a Accounts) Names() []string {
	return sortedKeys(a)
}

func loadStore(path string, dst interface{}) error {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided store file
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, dst)
	default:
		err = json.Unmarshal(data, dst)
	}
	if err != nil {
		return core.ErrMalformedStore.WithCause(err).
			WithDetails(map[string]interface{}{"key": path})
	}
	return nil
}

func notFound(kind, name string) error {
	return core.ErrKeyNotFound.
		WithMessage(kind+" not found").
		WithDetails(map[string]interface{}{"key": name})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

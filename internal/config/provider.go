package config

import "github.com/spf13/viper"

// Provider is a read-only key-path view over the loaded settings.
type Provider struct {
	v *viper.Viper
}

// ValueAt returns the value stored at a dotted key path such as
// "backend.baseURL". Key paths are case-insensitive.
func (p *Provider) ValueAt(keyPath string) (any, bool) {
	if p == nil || p.v == nil || !p.v.IsSet(keyPath) {
		return nil, false
	}
	return p.v.Get(keyPath), true
}

// String returns the value at keyPath when it is a string.
func (p *Provider) String(keyPath string) (string, bool) {
	value, ok := p.ValueAt(keyPath)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

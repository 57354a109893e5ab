package config

// Credential is an optional secret. The zero value is absent.
type Credential struct {
	value string
	ok    bool
}

func Some(value string) Credential {
	if value == "" {
		return Credential{}
	}
	return Credential{value: value, ok: true}
}

func None() Credential { return Credential{} }

func (c Credential) Get() (string, bool) { return c.value, c.ok }

func (c Credential) Present() bool { return c.ok }

// String never prints the secret.
func (c Credential) String() string {
	if c.ok {
		return "<set>"
	}
	return "<absent>"
}

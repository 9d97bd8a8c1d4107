package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/magiconair/properties"
)

// Credentials are the three opaque strings the scraper needs. They are read
// once at startup and never modified.
type Credentials struct {
	Identity  string `validate:"required"`
	Secret    string `validate:"required"`
	TargetURL string `validate:"required,url"`
}

// credential file key for each field; errors follow the struct field order
var credentialKeys = map[string]string{
	"Identity":  "username",
	"Secret":    "password",
	"TargetURL": "url",
}

var validate = validator.New()

// LoadCredentials parses a Java properties file with the keys username,
// password and url. Values are taken verbatim: no ${} expansion and no inline
// comments. Any missing or empty key fails the load.
func LoadCredentials(path string) (Credentials, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	values, err := loader.LoadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("could not read credentials file %s: %w", path, err)
	}

	creds := Credentials{
		Identity:  strings.TrimSpace(values.GetString("username", "")),
		Secret:    values.GetString("password", ""),
		TargetURL: strings.TrimSpace(values.GetString("url", "")),
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("credentials file %s: %w", path, err)
	}
	return creds, nil
}

// Validate reports every missing or malformed field by its file key.
func (c Credentials) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := credentialKeys[fe.Field()]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing key %q", key))
		default:
			msgs = append(msgs, fmt.Sprintf("key %q is not a valid %s", key, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// WithTargetURL returns a copy pointing at another job posting.
func (c Credentials) WithTargetURL(u string) Credentials {
	if u != "" {
		c.TargetURL = u
	}
	return c
}

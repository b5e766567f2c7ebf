package common

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"

	log "github.com/sirupsen/logrus"
)

// Credentials - Decrypted upstream credentials, produced out-of-band by the
// environment setup tool. The encrypted file holds a JSON array of exactly six
// strings: session-source URL, username, password, then the same for the
// health source.
type Credentials struct {
	ISEURL       string
	ISEUsername  string
	ISEPassword  string
	DNACURL      string
	DNACUsername string
	DNACPassword string
}

const secretboxNonceSize = 24
const secretboxKeySize = 32

// LoadCredentials - Read the key file and decrypt the credentials file.
// Any failure here is startup-fatal for the caller.
func LoadCredentials(config *Config) (*Credentials, error) {
	log.WithFields(log.Fields{
		"key_path":         config.KeyPath,
		"credentials_path": config.CredentialsPath,
	}).Trace("Loading credentials")

	rawKey, err := os.ReadFile(config.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("key file not found, run the environment setup tool first: %w", err)
	}
	keyBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(rawKey)))
	if err != nil {
		return nil, fmt.Errorf("malformed key file: %w", err)
	}
	if len(keyBytes) != secretboxKeySize {
		return nil, fmt.Errorf("malformed key file: got %v bytes, want %v", len(keyBytes), secretboxKeySize)
	}
	var key [secretboxKeySize]byte
	copy(key[:], keyBytes)

	sealed, err := os.ReadFile(config.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("credentials file not found, run the environment setup tool first: %w", err)
	}
	if len(sealed) < secretboxNonceSize {
		return nil, fmt.Errorf("credentials file too short")
	}
	var nonce [secretboxNonceSize]byte
	copy(nonce[:], sealed[:secretboxNonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[secretboxNonceSize:], &nonce, &key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt credentials, key and credentials files do not match")
	}

	var fields []string
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}
	if len(fields) != 6 {
		return nil, fmt.Errorf("decrypted credentials hold %v fields, want 6", len(fields))
	}

	credentials := &Credentials{
		ISEURL:       strings.TrimRight(fields[0], "/"),
		ISEUsername:  fields[1],
		ISEPassword:  fields[2],
		DNACURL:      strings.TrimRight(fields[3], "/"),
		DNACUsername: fields[4],
		DNACPassword: fields[5],
	}
	if credentials.ISEURL == "" || credentials.DNACURL == "" {
		return nil, fmt.Errorf("decrypted credentials missing an upstream URL")
	}

	log.Info("Loaded credentials")

	return credentials, nil
}

// SealCredentials - Encrypt a credentials 6-tuple with the given key and nonce
// prefix layout understood by LoadCredentials. Used by the setup tooling and
// by tests.
func SealCredentials(credentials *Credentials, key *[secretboxKeySize]byte, nonce *[secretboxNonceSize]byte) ([]byte, error) {
	fields := []string{
		credentials.ISEURL,
		credentials.ISEUsername,
		credentials.ISEPassword,
		credentials.DNACURL,
		credentials.DNACUsername,
		credentials.DNACPassword,
	}
	plaintext, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, nonce, key), nil
}

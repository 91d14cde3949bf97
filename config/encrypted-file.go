package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"io/ioutil"
	"path"
	"sync"

	"github.com/relloyd/housepipe/helper"
)

// EnvVarConfigKey may hold a passphrase used to derive the file encryption key.
const EnvVarConfigKey = "HP_CONFIG_KEY"

var defaultFileEncrKey = []byte("Hq3#vTz8!pLw@2Rk^9dNf*6sYb&1xCeM")

// EncryptedFile stores bytes with AES-GCM and base64 encoding.
type EncryptedFile struct {
	Dirname  string
	FileName string
	FullPath string
	mu       sync.Mutex
}

func NewEncryptedFile(dirName string, filename string) *EncryptedFile {
	return &EncryptedFile{Dirname: dirName, FileName: filename, FullPath: path.Join(dirName, filename)}
}

// fileEncrKey returns a 32 byte key from EnvVarConfigKey, or the built in key if it is not set.
func fileEncrKey() []byte {
	if pass := helper.ReadValueFromEnvWithDefault(EnvVarConfigKey, ""); pass != "" {
		k := sha256.Sum256([]byte(pass))
		return k[:]
	}
	return defaultFileEncrKey
}

func (f *EncryptedFile) Set(text []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sealed, err := Encrypt(text, fileEncrKey())
	if err != nil {
		return err
	}
	b64 := base64.StdEncoding.EncodeToString(sealed)
	if !fileExists(f.FullPath) {
		if err := makeDir(f.Dirname); err != nil {
			return err
		}
	}
	return ioutil.WriteFile(f.FullPath, []byte(b64), 0600)
}

func (f *EncryptedFile) Get() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !fileExists(f.FullPath) {
		return nil, FileNotFoundError{f.FullPath}
	}
	b64, err := ioutil.ReadFile(f.FullPath)
	if err != nil {
		return nil, err
	}
	cipherText, err := base64.StdEncoding.DecodeString(string(b64))
	if err != nil {
		return nil, fmt.Errorf("config file %v is not valid: %w", f.FullPath, err)
	}
	return Decrypt(cipherText, fileEncrKey())
}

// Encrypt seals text with AES-GCM using a random nonce, which is prefixed to the result.
func Encrypt(text []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, text, nil), nil
}

func Decrypt(text []byte, key []byte) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(text) < nonceSize {
		return nil, fmt.Errorf("encrypted text is too short")
	}
	nonce, cipherText := text[:nonceSize], text[nonceSize:]
	return gcm.Open(nil, nonce, cipherText, nil)
}

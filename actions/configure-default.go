package actions

import (
	"errors"
	"fmt"

	"github.com/relloyd/housepipe/config"
	"github.com/relloyd/housepipe/helper"
)

type DefaultAddConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
	Value      string       `errorTxt:"value" mandatory:"yes"`
	Force      bool
	KnownKeys  map[string]bool // optional; if set the key must be one of these flag names
}

type DefaultRemoveConfig struct {
	ConfigFile *config.File `errorTxt:"config-file" mandatory:"yes"`
	Key        string       `errorTxt:"key" mandatory:"yes"`
}

// RunDefaultAdd adds key+value to the given config file.
// If cfg.Force is not set then it returns an error when the key exists.
// The config file is created lazily.
func RunDefaultAdd(cfg *DefaultAddConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if cfg.KnownKeys != nil && !cfg.KnownKeys[cfg.Key] {
		return fmt.Errorf("key %q does not match a flag name", cfg.Key)
	}
	var val string
	err := cfg.ConfigFile.Get(cfg.Key, &val)
	if err == nil && !cfg.Force { // if key exists and we're not allowed to overwrite...
		return fmt.Errorf("key %q exists, use force to update the value or remove it first", cfg.Key)
	} else if err != nil && !isNotFound(err) { // else there was an unexpected error...
		return err
	}
	if err = cfg.ConfigFile.Set(cfg.Key, cfg.Value); err != nil {
		return fmt.Errorf("error writing config file after adding: %v", err)
	}
	fmt.Fprintf(stdout, "Key %q added to %q\n", cfg.Key, cfg.ConfigFile.FullPath)
	return nil
}

// RunDefaultRemove removes a key from the given config file.
func RunDefaultRemove(cfg *DefaultRemoveConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil { // if the basics were not supplied...
		return err
	}
	if err := cfg.ConfigFile.Delete(cfg.Key); err != nil {
		return fmt.Errorf("unable to delete key %q from config: %v", cfg.Key, err)
	}
	fmt.Fprintf(stdout, "Key %q removed\n", cfg.Key)
	return nil
}

// RunDefaultList prints each key=value in the given config file.
func RunDefaultList(c *config.File) error {
	keys, err := c.GetAllKeys()
	if err != nil {
		return err
	}
	var val string
	for _, k := range keys { // for each key...
		if err = c.Get(k, &val); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%v=%v\n", k, val)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.As(err, &config.KeyNotFoundError{}) || errors.As(err, &config.FileNotFoundError{})
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

func createConfigDir(configDirPath string) error {
	if _, err := os.Stat(configDirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDirPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		ancli.PrintOK(fmt.Sprintf("created config directory at: '%v'\n", configDirPath))
	}
	return nil
}

func createDefaultConfigFile[T any](configDirPath, configFileName string, dflt *T) error {
	configFilePath := filepath.Join(configDirPath, configFileName)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.PrintOK(fmt.Sprintf("attempting to create file: '%v'\n", configFilePath))
		}
		err := writeFile(configFilePath, dflt)
		if err != nil {
			return fmt.Errorf("failed to write config: '%v', error: %w", configFileName, err)
		}
	}
	return nil
}

// LoadConfigFromFile in configDirPath. The directory and file are created from
// dflt if missing, and zero valued fields of an existing file are filled in
// from dflt and written back.
func LoadConfigFromFile[T any](configDirPath, configFileName string, dflt *T) (T, error) {
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("attempting to load file: %v\n", filepath.Join(configDirPath, configFileName)))
	}

	var nilVal T
	err := createConfigDir(configDirPath)
	if err != nil {
		return nilVal, err
	}

	err = createDefaultConfigFile(configDirPath, configFileName, dflt)
	if err != nil {
		return nilVal, err
	}

	configPath := filepath.Join(configDirPath, configFileName)
	var conf T
	err = readAndUnmarshal(configPath, &conf)
	if err != nil {
		return conf, fmt.Errorf("failed to unmarshal config '%v', error: %w", configFileName, err)
	}

	hasChanged := setNonZeroValueFields(&conf, dflt)
	if hasChanged {
		err = writeFile(configPath, &conf)
		if err != nil {
			return conf, fmt.Errorf("failed to write config '%v' post zero-field appendage, error: %w", configFileName, err)
		}
		ancli.PrintOK(fmt.Sprintf("appended new fields to config and updated config file: %v\n", configPath))
	}

	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK(fmt.Sprintf("found config: %+v\n", conf))
	}
	return conf, nil
}

// setNonZeroValueFields on a using b as template
func setNonZeroValueFields[T any](a, b *T) bool {
	hasChanged := false
	t := reflect.TypeOf(*a)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		aVal := reflect.ValueOf(a).Elem().FieldByName(f.Name)
		bVal := reflect.ValueOf(b).Elem().FieldByName(f.Name)
		if f.IsExported() && aVal.IsZero() && !bVal.IsZero() {
			hasChanged = true
			aVal.Set(bVal)
		}
	}
	return hasChanged
}

func writeFile[T any](path string, toWrite *T) error {
	fileBytes, err := json.MarshalIndent(toWrite, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal file: %w", err)
	}
	err = os.WriteFile(path, fileBytes, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// readAndUnmarshal by first finding the file, then attempting to read + unmarshal to T
func readAndUnmarshal[T any](filePath string, config *T) error {
	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to find file: %w", err)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	err = json.Unmarshal(fileBytes, config)
	if err != nil {
		return fmt.Errorf("failed to unmarshal file: %w", err)
	}
	return nil
}

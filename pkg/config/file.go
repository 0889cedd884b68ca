// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// targetsFile is the on-disk format of a destinations file.
type targetsFile struct {
	Destinations []string `yaml:"destinations"`
}

// LoadTargets reads a YAML destinations file and returns the listed
// destinations in file order.
func LoadTargets(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var tf targetsFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	if len(tf.Destinations) == 0 {
		return nil, ErrNoDestinations
	}
	return tf.Destinations, nil
}

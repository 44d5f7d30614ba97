// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

// Config is the config for database
type Config struct {
	// DbPath is the path of database file
	DbPath string `yaml:"dbPath"`
	// NumRetries is the number of retries on db operation
	NumRetries uint8 `yaml:"numRetries"`
	// ReadOnly opens the database in read-only mode
	ReadOnly bool `yaml:"readOnly"`
}

// DefaultConfig returns the default config
var DefaultConfig = Config{
	NumRetries: 3,
}

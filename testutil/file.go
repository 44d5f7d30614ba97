// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"os"
)

// PathOfTempFile returns the path of a new temporary file
func PathOfTempFile(pattern string) (string, error) {
	tempFile, err := os.CreateTemp(os.TempDir(), pattern)
	if err != nil {
		return "", err
	}
	return tempFile.Name(), tempFile.Close()
}

// CleanupPath removes the test file or directory if it exists
func CleanupPath(path string) {
	if _, err := os.Stat(path); err == nil && os.RemoveAll(path) != nil {
		panic("failed to remove test file")
	}
}

// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

// CheckCondition defines a func type that checks whether a condition is met
type CheckCondition func() (bool, error)

// ErrTimeout is returned when the check does not pass before the timeout
var ErrTimeout = errors.New("timed out waiting for the condition")

// WaitUntil periodically probes the condition until it holds or the timeout
// elapses
func WaitUntil(checkInterval, timeout time.Duration, f CheckCondition) error {
	return backoff.Retry(func() error {
		ok, err := f()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return ErrTimeout
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(checkInterval), uint64(timeout/checkInterval)))
}

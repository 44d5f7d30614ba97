// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package registrar

import "time"

// Config defines the timing and queue parameters of the registration FSM
type Config struct {
	// MaturityBuffer is the wait between commit confirmation and mint. It
	// must exceed the registrar contract's minimum commitment age or the
	// mint reverts with CommitTooNew().
	MaturityBuffer time.Duration `yaml:"maturityBuffer"`
	// EventChanSize is the size of the event queue
	EventChanSize uint `yaml:"eventChanSize"`
}

// DefaultConfig is the default config
var DefaultConfig = Config{
	MaturityBuffer: 16 * time.Second,
	EventChanSize:  16,
}

// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package lifecycle provides the start/stop protocol components agree on.
package lifecycle

import "context"

type (
	// Starter is a model that can Start
	Starter interface {
		Start(context.Context) error
	}

	// Stopper is a model that can Stop
	Stopper interface {
		Stop(context.Context) error
	}

	// StartStopper is the composition of Starter and Stopper
	StartStopper interface {
		Starter
		Stopper
	}

	// Lifecycle manages the lifecycle of a group of models: started in the
	// order they were added, stopped in reverse.
	Lifecycle struct {
		models []interface{}
	}
)

// Add adds a model to the lifecycle.
func (lc *Lifecycle) Add(m interface{}) { lc.models = append(lc.models, m) }

// AddModels adds multiple models to the lifecycle.
func (lc *Lifecycle) AddModels(m ...interface{}) { lc.models = append(lc.models, m...) }

// OnStart runs models' Start in the order they were added.
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for _, m := range lc.models {
		if starter, ok := m.(Starter); ok {
			if err := starter.Start(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// OnStop runs models' Stop in the reverse order, so dependents go down before
// their dependencies.
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	for i := len(lc.models) - 1; i >= 0; i-- {
		if stopper, ok := lc.models[i].(Stopper); ok {
			if err := stopper.Stop(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type order struct {
	name string
	log  *[]string
	err  error
}

func (o *order) Start(context.Context) error { *o.log = append(*o.log, "start "+o.name); return o.err }
func (o *order) Stop(context.Context) error  { *o.log = append(*o.log, "stop "+o.name); return nil }

func TestLifecycle(t *testing.T) {
	require := require.New(t)
	var trace []string
	var lc Lifecycle
	lc.AddModels(&order{name: "a", log: &trace}, &order{name: "b", log: &trace})
	lc.Add(&order{name: "c", log: &trace})

	require.NoError(lc.OnStart(context.Background()))
	require.NoError(lc.OnStop(context.Background()))
	require.Equal([]string{"start a", "start b", "start c", "stop c", "stop b", "stop a"}, trace)
}

func TestLifecycleStartFailure(t *testing.T) {
	require := require.New(t)
	var trace []string
	var lc Lifecycle
	lc.AddModels(&order{name: "a", log: &trace}, &order{name: "b", log: &trace, err: errors.New("boom")})
	require.Error(lc.OnStart(context.Background()))
	require.Equal([]string{"start a", "start b"}, trace)
}

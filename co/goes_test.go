// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var goes Goes
	var n atomic.Int32

	for range 10 {
		goes.Go(func() { n.Add(1) })
	}
	goes.Wait()
	assert.Equal(t, int32(10), n.Load())
}

func TestGoes_Context(t *testing.T) {
	var goes Goes
	ctx, cancel := context.WithCancel(context.Background())

	goes.GoContext(ctx, func(ctx context.Context) { <-ctx.Done() })
	cancel()

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit")
	}
}

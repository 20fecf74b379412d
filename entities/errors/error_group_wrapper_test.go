//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package errors

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorGroupWrapper(t *testing.T) {
	logger, hook := test.NewNullLogger()

	t.Run("all goroutines succeed", func(t *testing.T) {
		eg := NewErrorGroupWrapper(logger)
		eg.SetLimit(2)

		var count atomic.Int32
		for i := 0; i < 10; i++ {
			eg.Go(func() error {
				count.Add(1)
				return nil
			})
		}
		require.Nil(t, eg.Wait())
		assert.Equal(t, int32(10), count.Load())
	})

	t.Run("first error is returned", func(t *testing.T) {
		eg := NewErrorGroupWrapper(logger)
		eg.Go(func() error { return fmt.Errorf("boom") })
		eg.Go(func() error { return nil })
		assert.EqualError(t, eg.Wait(), "boom")
	})

	t.Run("panic is recovered", func(t *testing.T) {
		hook.Reset()
		eg := NewErrorGroupWrapper(logger, "vertices")
		eg.Go(func() error { panic("out of range") }, 7)

		err := eg.Wait()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "panic occurred: out of range")

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, "recover_panic", hook.LastEntry().Data["action"])
	})

	t.Run("context is cancelled after a failure", func(t *testing.T) {
		eg, ctx := NewErrorGroupWithContextWrapper(context.Background(), logger)
		eg.Go(func() error { return fmt.Errorf("stop") })
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return fmt.Errorf("context was not cancelled")
			}
		})
		assert.EqualError(t, eg.Wait(), "stop")
	})
}

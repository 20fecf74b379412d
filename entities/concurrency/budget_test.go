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

package concurrency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 4, BudgetFromCtx(ctx, 4))

	ctx = CtxWithBudget(ctx, 8)
	assert.Equal(t, 8, BudgetFromCtx(ctx, 4))

	assert.Equal(t, 4, BudgetFromCtx(CtxWithBudget(ctx, 0), 4))
}

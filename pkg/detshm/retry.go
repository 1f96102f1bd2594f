/*
 * Copyright 2025 EdgeVision Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package detshm

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
)

// ConsumeWithRetry consumes the stream, retrying with the given
// backoff while the segment does not exist yet. Every other failure is
// permanent. A nil backoff means exponential with default settings.
// Opening a missing segment never blocks; the waiting lives entirely
// in this helper.
func ConsumeWithRetry(ctx context.Context, opts Options, bo backoff.BackOff) (Batch, error) {
	if bo == nil {
		bo = backoff.NewExponentialBackOff()
	}
	var out Batch
	op := func() error {
		b, err := Consume(ctx, opts)
		if err != nil {
			if errors.Is(err, ErrSegmentNotFound) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = b
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return Batch{}, err
	}
	return out, nil
}

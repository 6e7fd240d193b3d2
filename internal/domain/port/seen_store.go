// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// SeenStore keeps phone numbers reported by earlier searches
type SeenStore interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Save(ctx context.Context, numbers []string) error
}

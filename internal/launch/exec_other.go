// SPDX-License-Identifier: MPL-2.0

//go:build !unix && !windows

package launch

import "errors"

type block struct{}

func encodeBlock(_, _ []string) (*block, error) {
	return nil, errors.ErrUnsupported
}

func (*block) exec() error { return errors.ErrUnsupported }

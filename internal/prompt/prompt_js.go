// Copyright (c) 2015-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prompt

import (
	"fmt"
	"io"
)

// PassPrompt is not available in WebAssembly builds.
func PassPrompt(_ io.Writer, _ string, _ bool) ([]byte, error) {
	return nil, fmt.Errorf("prompt not supported in WebAssembly")
}

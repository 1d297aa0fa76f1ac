// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingresspool

import "errors"

// errInvalidWireLength is returned by IngressMessageId.UnmarshalBinary when
// the input is not exactly 8+expectedContentHashLength bytes.
var errInvalidWireLength = errors.New("ingresspool: invalid IngressMessageId wire length")

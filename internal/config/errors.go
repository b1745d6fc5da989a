// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import "errors"

// ErrConfigInvalid is the fatal-at-start error kind for a missing API key,
// an out-of-range rewrite setting, or an unrecognized language code.
var ErrConfigInvalid = errors.New("invalid configuration")

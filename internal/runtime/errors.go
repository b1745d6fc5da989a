// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package runtime

import "errors"

var (
	ErrAlreadyRecording = errors.New("recording worker already running")
	ErrNotRecording     = errors.New("recording worker is not running")
	ErrNotReady         = errors.New("recording worker did not become ready")
	ErrDevice           = errors.New("audio device error")
)

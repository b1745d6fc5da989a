// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import "errors"

var (
	ErrInvalidConfig        = errors.New("invalid audio config")
	ErrNoInputDevice        = errors.New("no audio input device available")
	ErrConsumerAlreadyTaken = errors.New("ring buffer consumer has already been taken")
	ErrOutputChannelClosed  = errors.New("output channel receiver dropped")
	ErrInvalidInput         = errors.New("invalid audio input")
)

// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package txsign

import (
	"log/slog"

	"github.com/blinklabs-io/gopartition/txsystem"
)

// OptionFunc is a type that represents functions that modify the Signer config
type OptionFunc func(*Signer)

// WithLogger specifies the logger to use. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(s *Signer) {
		s.logger = logger
	}
}

// WithRegistry specifies the transaction registry used to resolve auth proof shapes.
// The default registry covers the default money and token partitions
func WithRegistry(registry *txsystem.Registry) OptionFunc {
	return func(s *Signer) {
		s.registry = registry
	}
}

// WithVersion specifies the version of new transaction orders
func WithVersion(version uint32) OptionFunc {
	return func(s *Signer) {
		s.version = version
	}
}

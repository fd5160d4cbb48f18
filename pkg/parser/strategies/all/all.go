// Package all imports every bundled strategy for side-effect registration.
// Usage: _ "github.com/specvital/suite-harness/pkg/parser/strategies/all"
package all

import (
	_ "github.com/specvital/suite-harness/pkg/parser/strategies/gotesting"
	_ "github.com/specvital/suite-harness/pkg/parser/strategies/mocha"
)

package kickstart

import "errors"

var (
	// Lifecycle dispatch errors.
	ErrInvalidCheckpoint    = errors.New("kickstart: invalid checkpoint")
	ErrNilEvent             = errors.New("kickstart: nil lifecycle event")
	ErrCheckpointRepeated   = errors.New("kickstart: checkpoint already fired")
	ErrCheckpointOutOfOrder = errors.New("kickstart: checkpoint fired out of order")
	ErrRegistrySealed       = errors.New("kickstart: listener registry sealed")

	// Bootstrap state errors.
	ErrInvalidPhase    = errors.New("kickstart: bootstrap phase out of order")
	ErrBootstrapFailed = errors.New("kickstart: bootstrap already failed")

	// Resolution errors.
	ErrNoInstaller   = errors.New("kickstart: no installer for extension")
	ErrUnknownBundle = errors.New("kickstart: unknown lookup bundle")

	// Injection errors.
	ErrNoBinding          = errors.New("kickstart: no binding")
	ErrCircularDependency = errors.New("kickstart: circular dependency")

	// Configuration errors.
	ErrInvalidConfig = errors.New("kickstart: invalid config")
)

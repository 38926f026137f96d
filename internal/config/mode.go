package config

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned when a mode string is not one of the accepted
// values.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects which data subdirectory a workspace run operates on.
// It is a closed enumeration; anything outside it fails ParseMode.
type Mode int

const (
	// ModeLocal reads and writes the workspace data directory directly.
	ModeLocal Mode = iota
	// ModeGitlab runs in CI and shares the training data directory.
	ModeGitlab
	// ModeTrain runs model training against the training data directory.
	ModeTrain
	// ModeExperiment runs experiments against the training data directory.
	ModeExperiment
	// ModeInference runs inference against the inference data directory.
	ModeInference
)

// ParseMode converts a mode string to a Mode, rejecting unknown values.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "local":
		return ModeLocal, nil
	case "gitlab":
		return ModeGitlab, nil
	case "train":
		return ModeTrain, nil
	case "experiment":
		return ModeExperiment, nil
	case "inference":
		return ModeInference, nil
	default:
		return ModeLocal, fmt.Errorf("%w: %q (want local, gitlab, train, experiment, or inference)", ErrInvalidMode, s)
	}
}

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeGitlab:
		return "gitlab"
	case ModeTrain:
		return "train"
	case ModeExperiment:
		return "experiment"
	case ModeInference:
		return "inference"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// dataSubdir returns the data subdirectory a mode operates on. Local mode
// uses the data directory itself; CI, training, and experiment modes share
// the training subdirectory; inference has its own.
func (m Mode) dataSubdir() string {
	switch m {
	case ModeLocal:
		return ""
	case ModeGitlab, ModeTrain, ModeExperiment:
		return "train"
	case ModeInference:
		return "inference"
	default:
		return ""
	}
}

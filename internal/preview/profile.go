package preview

import (
	"fmt"
	"strings"

	"reelpreview/internal/config"
	"reelpreview/internal/media/ffmpeg"
)

// DefaultFrameRate caps size-optimized previews when no rate is configured.
const DefaultFrameRate = 15

// Profile selects how the joined sequence is encoded.
type Profile struct {
	Name      string
	FrameRate int
}

// QualityProfile keeps the source frame rate and maximal fidelity.
func QualityProfile() Profile {
	return Profile{Name: config.ProfileQuality}
}

// SizeProfile caps the frame rate to keep artifacts small.
func SizeProfile(frameRate int) Profile {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return Profile{Name: config.ProfileSize, FrameRate: frameRate}
}

// ParseProfile resolves a profile name.
func ParseProfile(name string, frameRate int) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.ProfileQuality:
		return QualityProfile(), nil
	case config.ProfileSize, "":
		return SizeProfile(frameRate), nil
	default:
		return Profile{}, fmt.Errorf("unknown preview profile %q", name)
	}
}

func (p Profile) String() string {
	if p.Name == config.ProfileSize {
		return fmt.Sprintf("%s@%dfps", p.Name, p.FrameRate)
	}
	return p.Name
}

func (p Profile) animationOptions() ffmpeg.AnimationOptions {
	if p.Name == config.ProfileQuality {
		return ffmpeg.AnimationOptions{QScale: 100}
	}
	frameRate := p.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return ffmpeg.AnimationOptions{FrameRate: frameRate}
}

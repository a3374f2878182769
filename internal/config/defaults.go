package config

const (
	defaultConfigPath     = "~/.config/reelpreview/config.toml"
	defaultLibraryDir     = "."
	defaultWorkDir        = "~/.local/share/reelpreview/work"
	defaultStateDir       = "~/.local/share/reelpreview"
	defaultLogDir         = "~/.local/share/reelpreview/logs"
	defaultClipCount      = 4
	defaultTotalDuration  = 4.0
	defaultScaleWidth     = 720
	defaultProfile        = ProfileSize
	defaultFrameRate      = 15
	defaultStaticStrategy = StrategyDecode
	defaultJPEGQuality    = 95
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Encoding profile names accepted by preview.profile.
const (
	ProfileQuality = "quality"
	ProfileSize    = "size"
)

// Static extraction strategies accepted by static.strategy.
const (
	StrategyCodec  = "codec"
	StrategyDecode = "decode"
)

var (
	defaultVideoExtensions   = []string{".mp4", ".mov"}
	defaultStaticFormats     = []string{"webp", "png", "jpg"}
	defaultPreviewCategories = []string{"3d & full cgi", "ai", "vfx", "трансляции"}
	defaultStaticCategories  = []string{"3d & full cgi", "ai", "vfx", "трансляции", "пост-продакшн"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			WorkDir:    defaultWorkDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
		},
		Preview: Preview{
			ClipCount:       defaultClipCount,
			TotalDuration:   defaultTotalDuration,
			ScaleWidth:      defaultScaleWidth,
			Profile:         defaultProfile,
			FrameRate:       defaultFrameRate,
			VideoExtensions: append([]string(nil), defaultVideoExtensions...),
			Categories:      append([]string(nil), defaultPreviewCategories...),
		},
		Static: Static{
			Strategy:    defaultStaticStrategy,
			Formats:     append([]string(nil), defaultStaticFormats...),
			JPEGQuality: defaultJPEGQuality,
			Categories:  append([]string(nil), defaultStaticCategories...),
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

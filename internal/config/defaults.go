package config

const (
	defaultConfigPath        = "~/.config/reeldiary/config.toml"
	defaultExportDir         = "export"
	defaultOutputDir         = "."
	defaultLogDir            = "~/.local/share/reeldiary/logs"
	defaultDiaryFile         = "diary.csv"
	defaultLikesFile         = "likes/films.csv"
	defaultWatchlistFile     = "watchlist.csv"
	defaultDuplicates        = DuplicatesKeep
	defaultBaseURL           = "https://letterboxd.com"
	defaultUserAgent         = "reeldiary/dev"
	defaultRequestIntervalMS = 250
	defaultTimeoutSeconds    = 30
	defaultGridFile          = "index.html"
	defaultAnimationFile     = "ratings.gif"
	defaultChartFile         = "movies_graph.html"
	defaultAnimationWidth    = 640
	defaultAnimationHeight   = 360
	defaultChartTitle        = "Movies Watched Over Time (Cumulative)"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Duplicate diary row policies accepted by history.duplicates.
const (
	DuplicatesKeep = "keep"
	DuplicatesLast = "last"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ExportDir: defaultExportDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Export: Export{
			Diary:     defaultDiaryFile,
			Likes:     defaultLikesFile,
			Watchlist: defaultWatchlistFile,
		},
		History: History{
			Duplicates: defaultDuplicates,
		},
		Letterboxd: Letterboxd{
			BaseURL:           defaultBaseURL,
			UserAgent:         defaultUserAgent,
			RequestIntervalMS: defaultRequestIntervalMS,
			TimeoutSeconds:    defaultTimeoutSeconds,
		},
		PosterCache: PosterCache{
			Path: defaultPosterCachePath(),
		},
		Output: Output{
			GridFile:        defaultGridFile,
			AnimationFile:   defaultAnimationFile,
			ChartFile:       defaultChartFile,
			ReverseGrid:     true,
			AnimationWidth:  defaultAnimationWidth,
			AnimationHeight: defaultAnimationHeight,
			ChartTitle:      defaultChartTitle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

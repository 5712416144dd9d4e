package core

// RunInfo summarizes a finished round for persistence.
type RunInfo struct {
	Outcome  string // "won", "lost" or "quit"
	Autoplay string // Empty for manual play
	Seed     int64
	Cleared  int    // Items removed from play
	Ticks    uint64 // Simulation ticks elapsed
}

// RunReporter is implemented by games that can describe a finished round.
type RunReporter interface {
	RunInfo() RunInfo
}

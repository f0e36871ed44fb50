package buildinfo

// Populated via -ldflags at release build time; defaults cover dev runs.
var (
    Version = "dev"
    Commit  = "none"
    Date    = "unknown"
)

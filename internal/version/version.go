package version

import (
	"fmt"
	"runtime"
)

// Заполняются линкером при сборке:
//
//	go build -ldflags "-X .../internal/version.Version=1.4.0 ..."
var (
	Version     = "dev"
	BuildCommit string
	BuildDate   string // YYYY-MM-DD (UTC)
)

// BuildInfo - метаданные сборки для ручки /version.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

func Info() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    coalesce(BuildCommit, "unknown"),
		BuildDate: coalesce(BuildDate, "unknown"),
		GoVersion: runtime.Version(),
	}
}

// String - человекочитаемая строка сборки для стартового лога.
func String() string {
	info := Info()
	return fmt.Sprintf("ProTanki Server %s commit[%s] built[%s] %s",
		info.Version, info.Commit, info.BuildDate, info.GoVersion)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

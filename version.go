package boilerscore

import (
	"fmt"
	"go/build"
	"runtime"
)

// Version is the release version of the module.
const Version = "0.2.0"

// UserAgent identifies the command line tools when they fetch documents.
const UserAgent = "boilerscore/" + Version

// FullVersion includes the platform and Go release the binary was built for.
var FullVersion = fullVersion()

func fullVersion() string {
	goTag := runtime.Version()
	if tags := build.Default.ReleaseTags; len(tags) > 0 {
		goTag = tags[len(tags)-1]
	}
	return fmt.Sprintf("boilerscore %s %s/%s/%s", Version, runtime.GOARCH, runtime.GOOS, goTag)
}

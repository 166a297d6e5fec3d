package match

import (
	"fmt"
	"os"
)

var debugEnabled = os.Getenv("PATHMATCH_DEBUG") == "1"

func debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	fmt.Fprintf(os.Stderr, "[pathmatch-debug] "+format+"\n", args...)
}

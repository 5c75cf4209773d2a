// Command quran is a terminal Quran reader. Bookmarks, recent chapters and the
// last-read position are kept in a JSON file under the user config dir.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

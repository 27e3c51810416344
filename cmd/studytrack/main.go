// Command studytrack builds daily and per-minute datasets from activity,
// sleep and assignment exports.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

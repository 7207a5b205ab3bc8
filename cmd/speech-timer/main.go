// Command speech-timer runs a countdown for a timed speech and rings
// up to three bells as remaining-time thresholds are crossed.
package main

import "github.com/oshokin/speech-timer/cmd/speech-timer/cmd"

func main() {
	cmd.Execute()
}

// Command ehri-explorer provides a terminal client for the EHRI
// digital-archive APIs: country reports, archival search, the Document Blog
// and the geodata WMS service.
package main

import (
	"fmt"
	"os"

	"github.com/ehri-project/ehri-explorer/cli"
	"github.com/morikuni/failure/v2"
)

func main() {
	if err := cli.Run(); err != nil {
		var userMessage string
		if fmsg := failure.MessageOf(err); fmsg != "" {
			userMessage = fmsg.String()
		} else {
			userMessage = err.Error()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", userMessage)
		os.Exit(1)
	}
}

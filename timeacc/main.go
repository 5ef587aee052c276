/*
	timeacc builds the variable-width decay-time binning used by the
	acceptance fits, and the toy error band of the acceptance shape.
*/
package main

import (
	"os"

	"github.com/lhcb-b2dsk/timeacc/logging"
)

func main() {
	logging.InitializeLogging()
	if err := newRootCmd().Execute(); err != nil {
		logging.Log.Critical(err.Error())
		os.Exit(1)
	}
}

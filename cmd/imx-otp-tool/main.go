package main

import (
	"os"

	"github.com/OpenTraceLab/OpenTraceOTP/cmd/imx-otp-tool/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

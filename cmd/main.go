package main

import "github.com/strngrthnall/bridge-telemetria/cmd/telemetry"

func main() {
	telemetry.Execute()
}

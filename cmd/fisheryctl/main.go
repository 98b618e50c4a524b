// Command fisheryctl is the operator CLI for the fisheries data
// platform's batch operations: ingestion, trip assembly, matrix
// refresh, and reset.
package main

import "github.com/kyogre-go/fisheries/internal/adapters/cli"

func main() {
	cli.Execute()
}
